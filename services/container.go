package services

import (
	"coursehub/cache"
	"coursehub/checkout"
	"coursehub/events"
	"coursehub/logger"
	"coursehub/mailer"
	"coursehub/models"
	"coursehub/repositories"

	"gorm.io/gorm"
)

// Deps are the collaborators the services are built from.
type Deps struct {
	DB       *gorm.DB
	Provider checkout.Provider
	Events   events.Publisher
	Mail     *mailer.Mailer
	Cache    cache.Cache
	Log      *logger.Logger
	Identity IdentityConfig
	Payment  PaymentConfig
}

type Archives struct {
	Categories    *ArchiveService[models.Category]
	SubCategories *ArchiveService[models.SubCategory]
	Tags          *ArchiveService[models.Tag]
	Courses       *ArchiveService[models.Course]
	Videos        *ArchiveService[models.Video]
	Enrollments   *ArchiveService[models.Enrollment]
	Badges        *ArchiveService[models.Badge]
	Mentors       *ArchiveService[models.Mentor]
	Students      *ArchiveService[models.Student]
}

// Container holds one instance of every service, sharing repositories.
type Container struct {
	Identity    *IdentityService
	Profiles    *ProfileService
	Catalog     *CatalogService
	Courses     *CourseService
	Videos      *VideoService
	Enrollments *EnrollmentService
	Payments    *PaymentService
	Badges      *BadgeService
	Statistics  *StatisticsService
	Archives    Archives
}

func NewContainer(d Deps) *Container {
	if d.Events == nil {
		d.Events = events.Noop{}
	}
	db := d.DB
	users := repositories.NewUserRepository(db)
	mentors := repositories.NewMentorRepository(db)
	students := repositories.NewStudentRepository(db)
	categories := repositories.NewCategoryRepository(db)
	subcategories := repositories.NewSubCategoryRepository(db)
	tags := repositories.NewTagRepository(db)
	courses := repositories.NewCourseRepository(db)
	videos := repositories.NewVideoRepository(db)
	enrollments := repositories.NewEnrollmentRepository(db)
	payments := repositories.NewPaymentRepository(db)
	badges := repositories.NewBadgeRepository(db)

	enrollment := NewEnrollmentService(enrollments, courses, students, videos, d.Events, d.Mail, d.Log)
	return &Container{
		Identity:    NewIdentityService(users, d.Mail, d.Log, d.Identity),
		Profiles:    NewProfileService(mentors, students, badges, d.Log),
		Catalog:     NewCatalogService(categories, subcategories, tags, courses, d.Log),
		Courses:     NewCourseService(courses, mentors, categories, subcategories, tags, d.Log),
		Videos:      NewVideoService(videos, courses, enrollments, d.Log),
		Enrollments: enrollment,
		Payments: NewPaymentService(payments, courses, students, enrollments, enrollment,
			d.Provider, d.Events, d.Mail, d.Log, d.Payment),
		Badges:     NewBadgeService(badges, students, mentors, d.Events, d.Mail, d.Log),
		Statistics: NewStatisticsService(repositories.NewStatisticsRepository(db), d.Cache, d.Log),
		Archives: Archives{
			Categories:    NewArchiveService[models.Category](categories, d.Log),
			SubCategories: NewArchiveService[models.SubCategory](subcategories, d.Log),
			Tags:          NewArchiveService[models.Tag](tags, d.Log),
			Courses:       NewArchiveService[models.Course](courses, d.Log),
			Videos:        NewArchiveService[models.Video](videos, d.Log),
			Enrollments:   NewArchiveService[models.Enrollment](enrollments, d.Log),
			Badges:        NewArchiveService[models.Badge](badges, d.Log),
			Mentors:       NewArchiveService[models.Mentor](mentors, d.Log),
			Students:      NewArchiveService[models.Student](students, d.Log),
		},
	}
}
