package repositories

import (
	"context"
	"time"

	"coursehub/models"

	"gorm.io/gorm"
)

// StatisticsRepository runs the aggregate queries behind the dashboards. A non-zero mentorID
// limits course, enrollment and revenue figures to that mentor's courses.
type StatisticsRepository struct {
	db *gorm.DB
}

func NewStatisticsRepository(db *gorm.DB) *StatisticsRepository {
	return &StatisticsRepository{db: db}
}

type KeyCount struct {
	Label string `json:"key"`
	Total int64  `json:"count"`
}

type CourseRevenue struct {
	CourseID     uint    `json:"course_id"`
	Title        string  `json:"title"`
	Revenue      float64 `json:"revenue"`
	Transactions int64   `json:"transactions"`
}

type CoursePopularity struct {
	CourseID        uint   `json:"course_id"`
	Title           string `json:"title"`
	EnrollmentCount int64  `json:"enrollments"`
}

type StudentBadgeCount struct {
	StudentID  uint   `json:"student_id"`
	Name       string `json:"name"`
	BadgeCount int    `json:"badge_count"`
}

func (r *StatisticsRepository) courses(ctx context.Context, mentorID uint) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Course{}).Where("courses.is_deleted = ?", false)
	if mentorID != 0 {
		q = q.Where("courses.mentor_id = ?", mentorID)
	}
	return q
}

func (r *StatisticsRepository) enrollments(ctx context.Context, mentorID uint) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Enrollment{}).Where("enrollments.is_deleted = ?", false)
	if mentorID != 0 {
		q = q.Where("enrollments.course_id IN (?)", r.courses(ctx, mentorID).Select("courses.id"))
	}
	return q
}

// revenue covers payments the provider confirmed as paid.
func (r *StatisticsRepository) revenue(ctx context.Context, mentorID uint) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Payment{}).
		Where("payments.is_deleted = ? AND payments.status = ? AND payments.confirmed_at IS NOT NULL",
			false, models.PaymentStatusCompleted)
	if mentorID != 0 {
		q = q.Where("payments.course_id IN (?)", r.courses(ctx, mentorID).Select("courses.id"))
	}
	return q
}

func (r *StatisticsRepository) UsersByRole(ctx context.Context) ([]KeyCount, error) {
	var out []KeyCount
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Select("role AS label, COUNT(*) AS total").
		Where("is_deleted = ?", false).
		Group("role").
		Order("role asc").
		Scan(&out).Error
	return out, wrapStats(err)
}

func (r *StatisticsRepository) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("is_deleted = ?", false).Count(&n).Error
	return n, wrapStats(err)
}

func (r *StatisticsRepository) NewUsersSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("is_deleted = ? AND created_at >= ?", false, since).
		Count(&n).Error
	return n, wrapStats(err)
}

func (r *StatisticsRepository) ActiveUsersSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("is_deleted = ? AND last_active_at >= ?", false, since).
		Count(&n).Error
	return n, wrapStats(err)
}

func (r *StatisticsRepository) CoursesByStatus(ctx context.Context, mentorID uint) ([]KeyCount, error) {
	var out []KeyCount
	err := r.courses(ctx, mentorID).
		Select("courses.status AS label, COUNT(*) AS total").
		Group("courses.status").
		Order("courses.status asc").
		Scan(&out).Error
	return out, wrapStats(err)
}

func (r *StatisticsRepository) EnrollmentsByStatus(ctx context.Context, mentorID uint) ([]KeyCount, error) {
	var out []KeyCount
	err := r.enrollments(ctx, mentorID).
		Select("enrollments.status AS label, COUNT(*) AS total").
		Group("enrollments.status").
		Order("enrollments.status asc").
		Scan(&out).Error
	return out, wrapStats(err)
}

func (r *StatisticsRepository) CompletedEnrollments(ctx context.Context, mentorID uint) (int64, error) {
	var n int64
	err := r.enrollments(ctx, mentorID).Where("enrollments.completed_at IS NOT NULL").Count(&n).Error
	return n, wrapStats(err)
}

func (r *StatisticsRepository) RecentEnrollments(ctx context.Context, mentorID uint, limit int) ([]models.Enrollment, error) {
	var out []models.Enrollment
	q := withPreloads(r.enrollments(ctx, mentorID), []string{"Course", "Student", "Student.User"})
	err := q.Order("enrollments.created_at desc, enrollments.id desc").Limit(limit).Find(&out).Error
	return out, wrapStats(err)
}

func (r *StatisticsRepository) PopularCourses(ctx context.Context, mentorID uint, limit int) ([]CoursePopularity, error) {
	var out []CoursePopularity
	err := r.courses(ctx, mentorID).
		Select("courses.id AS course_id, courses.title AS title, COUNT(enrollments.id) AS enrollment_count").
		Joins("LEFT JOIN enrollments ON enrollments.course_id = courses.id AND enrollments.is_deleted = ?", false).
		Group("courses.id, courses.title").
		Order("enrollment_count desc, courses.id asc").
		Limit(limit).
		Scan(&out).Error
	return out, wrapStats(err)
}

// Revenue sums confirmed payments, optionally only those confirmed since the given time.
func (r *StatisticsRepository) Revenue(ctx context.Context, mentorID uint, since *time.Time) (float64, int64, error) {
	var row struct {
		Total    float64
		TxnCount int64
	}
	q := r.revenue(ctx, mentorID)
	if since != nil {
		q = q.Where("payments.confirmed_at >= ?", *since)
	}
	err := q.Select("COALESCE(SUM(payments.amount), 0) AS total, COUNT(*) AS txn_count").Scan(&row).Error
	return row.Total, row.TxnCount, wrapStats(err)
}

func (r *StatisticsRepository) RevenueByCourse(ctx context.Context, mentorID uint) ([]CourseRevenue, error) {
	var out []CourseRevenue
	err := r.revenue(ctx, mentorID).
		Select("payments.course_id AS course_id, courses.title AS title, " +
			"COALESCE(SUM(payments.amount), 0) AS revenue, COUNT(*) AS transactions").
		Joins("JOIN courses ON courses.id = payments.course_id").
		Group("payments.course_id, courses.title").
		Order("revenue desc, payments.course_id asc").
		Scan(&out).Error
	return out, wrapStats(err)
}

func (r *StatisticsRepository) BadgesByType(ctx context.Context) ([]KeyCount, error) {
	var out []KeyCount
	err := r.db.WithContext(ctx).Model(&models.Badge{}).
		Select("type AS label, COUNT(*) AS total").
		Where("is_deleted = ?", false).
		Group("type").
		Order("type asc").
		Scan(&out).Error
	return out, wrapStats(err)
}

func (r *StatisticsRepository) CountAwards(ctx context.Context) (students int64, mentors int64, err error) {
	active := r.db.Model(&models.Badge{}).Select("id").Where("is_deleted = ?", false)
	if err = r.db.WithContext(ctx).Model(&models.StudentBadge{}).Where("badge_id IN (?)", active).Count(&students).Error; err != nil {
		return 0, 0, wrapStats(err)
	}
	err = r.db.WithContext(ctx).Model(&models.MentorBadge{}).Where("badge_id IN (?)", active).Count(&mentors).Error
	return students, mentors, wrapStats(err)
}

func (r *StatisticsRepository) TopBadgeStudents(ctx context.Context, limit int) ([]StudentBadgeCount, error) {
	var out []StudentBadgeCount
	err := r.db.WithContext(ctx).Model(&models.Student{}).
		Select("students.id AS student_id, users.name AS name, students.badge_count AS badge_count").
		Joins("JOIN users ON users.id = students.user_id").
		Where("students.is_deleted = ? AND students.badge_count > 0", false).
		Order("students.badge_count desc, students.id asc").
		Limit(limit).
		Scan(&out).Error
	return out, wrapStats(err)
}

func wrapStats(err error) error {
	if err == nil {
		return nil
	}
	return wrapErr(err, "Statistics", "fetch")
}
