package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"coursehub/cache"
	"coursehub/checkout"
	"coursehub/database"
	"coursehub/events"
	"coursehub/logger"
	"coursehub/mailer"
	"coursehub/models"
	"coursehub/policy"
	"coursehub/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// fakeProvider stands in for the hosted checkout. Sessions are created unpaid; tests flip
// them with markPaid.
type fakeProvider struct {
	sessions    map[string]*checkout.Session
	requests    []checkout.SessionRequest
	createErr   error
	retrieveErr error
	seq         int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{sessions: map[string]*checkout.Session{}}
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) CreateSession(_ context.Context, req checkout.SessionRequest) (*checkout.Session, error) {
	f.requests = append(f.requests, req)
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.seq++
	id := fmt.Sprintf("cs_test_%d", f.seq)
	s := &checkout.Session{
		ID:            id,
		URL:           "https://checkout.test/" + id,
		PaymentStatus: checkout.PaymentStatusUnpaid,
		Metadata:      req.Metadata,
	}
	f.sessions[id] = s
	return s, nil
}

func (f *fakeProvider) RetrieveSession(_ context.Context, id string) (*checkout.Session, error) {
	if f.retrieveErr != nil {
		return nil, f.retrieveErr
	}
	s, ok := f.sessions[id]
	if !ok {
		return nil, &checkout.ProviderError{Provider: "fake", Status: 404, Message: "No such checkout session"}
	}
	copied := *s
	return &copied, nil
}

func (f *fakeProvider) markPaid(id string) {
	s := f.sessions[id]
	s.PaymentStatus = checkout.PaymentStatusPaid
	s.PaymentMethod = "card"
	s.ReceiptURL = "https://receipts.test/" + id
}

type testEnv struct {
	ctx context.Context
	db  *gorm.DB
	lg  *logger.Logger

	users       *repositories.UserRepository
	students    *repositories.StudentRepository
	mentors     *repositories.MentorRepository
	courseRepo  *repositories.CourseRepository
	videoRepo   *repositories.VideoRepository
	enrollRepo  *repositories.EnrollmentRepository
	paymentRepo *repositories.PaymentRepository
	badgeRepo   *repositories.BadgeRepository

	identity    *IdentityService
	profiles    *ProfileService
	catalog     *CatalogService
	courses     *CourseService
	videos      *VideoService
	enrollments *EnrollmentService
	payments    *PaymentService
	badges      *BadgeService
	stats       *StatisticsService

	provider *fakeProvider
	events   *events.Recorder
	outbox   *mailer.Outbox
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := database.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.Migrate(db))

	log := logger.Nop()
	env := &testEnv{
		ctx:         context.Background(),
		db:          db,
		lg:          log,
		users:       repositories.NewUserRepository(db),
		students:    repositories.NewStudentRepository(db),
		mentors:     repositories.NewMentorRepository(db),
		courseRepo:  repositories.NewCourseRepository(db),
		videoRepo:   repositories.NewVideoRepository(db),
		enrollRepo:  repositories.NewEnrollmentRepository(db),
		paymentRepo: repositories.NewPaymentRepository(db),
		badgeRepo:   repositories.NewBadgeRepository(db),
		provider:    newFakeProvider(),
		events:      &events.Recorder{},
		outbox:      &mailer.Outbox{},
	}
	mail := mailer.NewWithSender(env.outbox, "CourseHub", false, log)
	categories := repositories.NewCategoryRepository(db)
	subcategories := repositories.NewSubCategoryRepository(db)
	tags := repositories.NewTagRepository(db)

	env.identity = NewIdentityService(env.users, mail, log, IdentityConfig{
		JWTSecret: "test-secret",
		TokenTTL:  time.Hour,
		SaltRound: bcrypt.MinCost,
	})
	env.profiles = NewProfileService(env.mentors, env.students, env.badgeRepo, log)
	env.catalog = NewCatalogService(categories, subcategories, tags, env.courseRepo, log)
	env.courses = NewCourseService(env.courseRepo, env.mentors, categories, subcategories, tags, log)
	env.videos = NewVideoService(env.videoRepo, env.courseRepo, env.enrollRepo, log)
	env.enrollments = NewEnrollmentService(env.enrollRepo, env.courseRepo, env.students, env.videoRepo, env.events, mail, log)
	env.payments = NewPaymentService(env.paymentRepo, env.courseRepo, env.students, env.enrollRepo, env.enrollments,
		env.provider, env.events, mail, log, PaymentConfig{
			SuccessURL:     "http://localhost/api/v1/payments/success?session_id={CHECKOUT_SESSION_ID}",
			CancelURL:      "http://localhost/api/v1/payments/cancel?session_id={CHECKOUT_SESSION_ID}",
			Currency:       "usd",
			ReconcileGrace: time.Minute,
		})
	env.badges = NewBadgeService(env.badgeRepo, env.students, env.mentors, env.events, mail, log)
	env.stats = NewStatisticsService(repositories.NewStatisticsRepository(db), cache.NewMemory(), log)
	return env
}

func ptr[T any](v T) *T { return &v }

func (e *testEnv) log() *logger.Logger { return e.lg }

func (e *testEnv) actor(t *testing.T, userID uint) policy.Actor {
	t.Helper()
	a, err := e.identity.Actor(e.ctx, userID)
	require.NoError(t, err)
	return a
}

func (e *testEnv) register(t *testing.T, role models.Role, name string) policy.Actor {
	t.Helper()
	res, err := e.identity.Register(e.ctx, RegisterInput{
		Name:     name,
		Email:    strings.ToLower(name) + "-" + uuid.NewString()[:8] + "@example.com",
		Password: "secret-password",
		Role:     role,
	})
	require.NoError(t, err)
	return e.actor(t, res.User.ID)
}

func (e *testEnv) admin(t *testing.T) policy.Actor {
	t.Helper()
	user := &models.User{Name: "Admin", Email: "admin-" + uuid.NewString()[:8] + "@example.com", Password: "x", Role: models.RoleAdmin}
	require.NoError(t, e.users.Create(e.ctx, user))
	return e.actor(t, user.ID)
}

func (e *testEnv) mentor(t *testing.T, name string) policy.Actor {
	t.Helper()
	a := e.register(t, models.RoleMentor, name)
	_, err := e.profiles.CreateMentor(e.ctx, a, MentorInput{Speciality: ptr("Go")})
	require.NoError(t, err)
	return e.actor(t, a.UserID)
}

func (e *testEnv) student(t *testing.T, name string) policy.Actor {
	t.Helper()
	a := e.register(t, models.RoleStudent, name)
	_, err := e.profiles.CreateStudent(e.ctx, a, StudentInput{Level: ptr(models.LevelBeginner)})
	require.NoError(t, err)
	return e.actor(t, a.UserID)
}

func (e *testEnv) category(t *testing.T, admin policy.Actor, name string) *models.Category {
	t.Helper()
	c, err := e.catalog.CreateCategory(e.ctx, admin, CategoryInput{Name: ptr(name)})
	require.NoError(t, err)
	return c
}

// course creates a published course owned by mentor. price 0 means free.
func (e *testEnv) course(t *testing.T, mentor policy.Actor, categoryID uint, title string, price float64, discount *float64) *models.Course {
	t.Helper()
	c, err := e.courses.Create(e.ctx, mentor, CourseInput{
		CategoryID:    &categoryID,
		Title:         ptr(title),
		Status:        ptr(models.CourseStatusPublished),
		IsFree:        ptr(price == 0),
		Price:         ptr(price),
		DiscountPrice: discount,
	})
	require.NoError(t, err)
	return c
}
