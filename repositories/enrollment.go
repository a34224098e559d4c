package repositories

import (
	"context"

	"coursehub/models"

	"gorm.io/gorm"
)

type EnrollmentRepository struct {
	*Store[models.Enrollment]
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{
		Store: NewStore[models.Enrollment](db, "Enrollment", "Course", "Student", "Student.User", "LastWatchedVideo"),
	}
}

func (r *EnrollmentRepository) WithTx(tx *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{Store: r.Store.WithTx(tx)}
}

// FindActive returns the live enrollment of a student in a course.
func (r *EnrollmentRepository) FindActive(ctx context.Context, studentID, courseID uint) (*models.Enrollment, error) {
	e := &models.Enrollment{}
	err := r.Query(ctx).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		First(e).Error
	if err != nil {
		return nil, r.wrap(err, "fetch")
	}
	return e, nil
}

func (r *EnrollmentRepository) IsEnrolled(ctx context.Context, studentID, courseID uint) (bool, error) {
	var count int64
	err := r.Query(ctx).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		Count(&count).Error
	if err != nil {
		return false, r.wrap(err, "fetch")
	}
	return count > 0, nil
}

// HasApproved reports whether the student may watch the course's content.
func (r *EnrollmentRepository) HasApproved(ctx context.Context, studentID, courseID uint) (bool, error) {
	var count int64
	err := r.Query(ctx).
		Where("student_id = ? AND course_id = ? AND status = ?", studentID, courseID, models.EnrollmentApproved).
		Count(&count).Error
	if err != nil {
		return false, r.wrap(err, "fetch")
	}
	return count > 0, nil
}

// EnrollmentScope restricts a listing. MentorID limits to that mentor's courses, StudentID to
// that student's enrollments. Zero fields are ignored.
type EnrollmentScope struct {
	MentorID  uint
	StudentID uint
	CourseID  uint
	Status    models.EnrollmentStatus
}

func (r *EnrollmentRepository) Search(ctx context.Context, scope EnrollmentScope) ([]models.Enrollment, error) {
	q := withPreloads(r.Query(ctx), r.Preloads())
	if scope.MentorID != 0 {
		q = q.Where("enrollments.course_id IN (?)",
			r.DB().Model(&models.Course{}).Select("id").Where("mentor_id = ?", scope.MentorID))
	}
	if scope.StudentID != 0 {
		q = q.Where("enrollments.student_id = ?", scope.StudentID)
	}
	if scope.CourseID != 0 {
		q = q.Where("enrollments.course_id = ?", scope.CourseID)
	}
	if scope.Status != "" {
		q = q.Where("enrollments.status = ?", scope.Status)
	}

	var out []models.Enrollment
	if err := q.Order("enrollments.created_at desc, enrollments.id desc").Find(&out).Error; err != nil {
		return nil, r.wrap(err, "fetch")
	}
	return out, nil
}

func (r *EnrollmentRepository) ByCourse(ctx context.Context, courseID uint) ([]models.Enrollment, error) {
	return r.Search(ctx, EnrollmentScope{CourseID: courseID})
}

func (r *EnrollmentRepository) ByStudent(ctx context.Context, studentID uint) ([]models.Enrollment, error) {
	return r.Search(ctx, EnrollmentScope{StudentID: studentID})
}
