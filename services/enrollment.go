package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"coursehub/apperr"
	"coursehub/events"
	"coursehub/logger"
	"coursehub/mailer"
	"coursehub/models"
	"coursehub/policy"
	"coursehub/repositories"
)

// EnrollmentService runs the enrollment state machine and progress tracking.
type EnrollmentService struct {
	enrollments *repositories.EnrollmentRepository
	courses     *repositories.CourseRepository
	students    *repositories.StudentRepository
	videos      *repositories.VideoRepository
	events      events.Publisher
	mail        *mailer.Mailer
	log         *logger.Logger
	now         func() time.Time
}

func NewEnrollmentService(
	enrollments *repositories.EnrollmentRepository,
	courses *repositories.CourseRepository,
	students *repositories.StudentRepository,
	videos *repositories.VideoRepository,
	publisher events.Publisher,
	mail *mailer.Mailer,
	log *logger.Logger,
) *EnrollmentService {
	return &EnrollmentService{
		enrollments: enrollments,
		courses:     courses,
		students:    students,
		videos:      videos,
		events:      publisher,
		mail:        mail,
		log:         log.With("service", "EnrollmentService"),
		now:         time.Now,
	}
}

func (s *EnrollmentService) Enroll(ctx context.Context, actor policy.Actor, courseID uint) (*models.Enrollment, error) {
	if err := actor.Authorize(policy.EnrollmentCreate, policy.Resource{}); err != nil {
		return nil, err
	}
	course, err := s.courses.FindByID(ctx, courseID, "Mentor")
	if err != nil {
		return nil, err
	}
	enrolled, err := s.enrollments.IsEnrolled(ctx, actor.StudentID, course.ID)
	if err != nil {
		return nil, err
	}
	if enrolled {
		return nil, apperr.Conflict("You are already enrolled in this course")
	}

	status := models.EnrollmentPending
	if course.IsFree {
		status = models.EnrollmentApproved
	}
	enrollment := &models.Enrollment{StudentID: actor.StudentID, CourseID: course.ID, Status: status}
	if err := s.enrollments.Create(ctx, enrollment); err != nil {
		if apperr.Is(err, apperr.KindConflict) {
			return nil, apperr.Conflict("You are already enrolled in this course")
		}
		return nil, err
	}

	s.log.Info("student enrolled", "enrollment_id", enrollment.ID, "student_id", actor.StudentID, "course_id", course.ID, "status", status)
	s.publish(ctx, events.EnrollmentCreated, enrollment)
	s.mail.SendEnrollmentConfirmation(actor.Email, actor.Name, course.Title, status == models.EnrollmentApproved)
	return s.enrollments.FindByID(ctx, enrollment.ID)
}

func (s *EnrollmentService) UpdateStatus(ctx context.Context, actor policy.Actor, id uint, status models.EnrollmentStatus) (*models.Enrollment, error) {
	if !status.Valid() {
		return nil, apperr.Field("status", "The selected status is invalid.")
	}
	enrollment, err := s.enrollments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := actor.Authorize(policy.EnrollmentSetStatus, s.resourceOf(enrollment)); err != nil {
		return nil, err
	}
	if enrollment.Status == status {
		return enrollment, nil
	}
	if !enrollment.Status.CanTransitionTo(status) {
		return nil, apperr.InvalidState(fmt.Sprintf("Cannot change enrollment status from %s to %s", enrollment.Status, status))
	}

	if err := s.enrollments.Updates(ctx, id, map[string]interface{}{"status": status}); err != nil {
		return nil, err
	}
	previous := enrollment.Status
	enrollment.Status = status

	s.log.Info("enrollment status changed", "enrollment_id", id, "from", previous, "to", status, "by", actor.UserID)
	s.publish(ctx, events.EnrollmentStatusChanged, enrollment, "previous_status", string(previous))
	if enrollment.Student != nil && enrollment.Student.User != nil && enrollment.Course != nil {
		s.mail.SendEnrollmentStatus(enrollment.Student.User.Email, enrollment.Student.User.Name, enrollment.Course.Title, string(status))
	}
	return s.enrollments.FindByID(ctx, id)
}

// UpdateProgress records watch progress. completed_at is stamped the first time progress
// reaches 100 and never cleared.
func (s *EnrollmentService) UpdateProgress(ctx context.Context, actor policy.Actor, id uint, progress int, lastWatchedVideoID *uint) (*models.Enrollment, error) {
	enrollment, err := s.enrollments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := actor.Authorize(policy.EnrollmentProgress, s.resourceOf(enrollment)); err != nil {
		return nil, err
	}
	if progress < 0 || progress > 100 {
		return nil, apperr.Field("progress", "The progress must be between 0 and 100.")
	}

	fields := map[string]interface{}{"progress": progress}
	if lastWatchedVideoID != nil {
		ok, err := s.videos.BelongsToCourse(ctx, *lastWatchedVideoID, enrollment.CourseID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, apperr.Field("last_watched_video_id", "The video does not belong to this course.")
		}
		fields["last_watched_video_id"] = *lastWatchedVideoID
	}
	completing := progress == 100 && enrollment.CompletedAt == nil
	if completing {
		fields["completed_at"] = s.now()
	}

	if err := s.enrollments.Updates(ctx, id, fields); err != nil {
		return nil, err
	}
	updated, err := s.enrollments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if completing {
		s.log.Info("enrollment completed", "enrollment_id", id, "student_id", enrollment.StudentID)
		s.publish(ctx, events.EnrollmentCompleted, updated)
	}
	return updated, nil
}

type EnrollmentUpdate struct {
	Status             *models.EnrollmentStatus
	Progress           *int
	LastWatchedVideoID *uint
}

// Update applies a combined change. Both parts are authorized and validated before either is
// written, then status goes through the state machine and progress through the progress rules.
func (s *EnrollmentService) Update(ctx context.Context, actor policy.Actor, id uint, in EnrollmentUpdate) (*models.Enrollment, error) {
	current, err := s.enrollments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	touchesProgress := in.Progress != nil || in.LastWatchedVideoID != nil
	if err := s.checkUpdate(ctx, actor, current, in, touchesProgress); err != nil {
		return nil, err
	}

	enrollment := current
	if in.Status != nil {
		if enrollment, err = s.UpdateStatus(ctx, actor, id, *in.Status); err != nil {
			return nil, err
		}
	}
	if touchesProgress {
		progress := current.Progress
		if in.Progress != nil {
			progress = *in.Progress
		}
		return s.UpdateProgress(ctx, actor, id, progress, in.LastWatchedVideoID)
	}
	return enrollment, nil
}

func (s *EnrollmentService) checkUpdate(ctx context.Context, actor policy.Actor, current *models.Enrollment, in EnrollmentUpdate, touchesProgress bool) error {
	resource := s.resourceOf(current)
	if in.Status != nil {
		if err := actor.Authorize(policy.EnrollmentSetStatus, resource); err != nil {
			return err
		}
		if !in.Status.Valid() {
			return apperr.Field("status", "The selected status is invalid.")
		}
		if current.Status != *in.Status && !current.Status.CanTransitionTo(*in.Status) {
			return apperr.InvalidState(fmt.Sprintf("Cannot change enrollment status from %s to %s", current.Status, *in.Status))
		}
	}
	if !touchesProgress {
		if in.Status == nil {
			return actor.Authorize(policy.EnrollmentView, resource)
		}
		return nil
	}
	if err := actor.Authorize(policy.EnrollmentProgress, resource); err != nil {
		return err
	}
	if in.Progress != nil && (*in.Progress < 0 || *in.Progress > 100) {
		return apperr.Field("progress", "The progress must be between 0 and 100.")
	}
	if in.LastWatchedVideoID != nil {
		ok, err := s.videos.BelongsToCourse(ctx, *in.LastWatchedVideoID, current.CourseID)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.Field("last_watched_video_id", "The video does not belong to this course.")
		}
	}
	return nil
}

func (s *EnrollmentService) Complete(ctx context.Context, actor policy.Actor, id uint) (*models.Enrollment, error) {
	return s.UpdateProgress(ctx, actor, id, 100, nil)
}

func (s *EnrollmentService) Delete(ctx context.Context, actor policy.Actor, id uint) error {
	enrollment, err := s.enrollments.FindByID(ctx, id, "Course")
	if err != nil {
		return err
	}
	if err := actor.Authorize(policy.EnrollmentDelete, s.resourceOf(enrollment)); err != nil {
		return err
	}
	if err := s.enrollments.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("enrollment deleted", "enrollment_id", id, "by", actor.UserID)
	return nil
}

func (s *EnrollmentService) Get(ctx context.Context, actor policy.Actor, id uint) (*models.Enrollment, error) {
	enrollment, err := s.enrollments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := actor.Authorize(policy.EnrollmentView, s.resourceOf(enrollment)); err != nil {
		return nil, err
	}
	return enrollment, nil
}

// List returns what the actor may see: everything for admins, enrollments in their own
// courses for mentors and their own enrollments for students.
func (s *EnrollmentService) List(ctx context.Context, actor policy.Actor) ([]models.Enrollment, error) {
	return s.search(ctx, actor, "")
}

func (s *EnrollmentService) ByStatus(ctx context.Context, actor policy.Actor, status models.EnrollmentStatus) ([]models.Enrollment, error) {
	if !status.Valid() {
		return nil, apperr.Field("status", "The selected status is invalid.")
	}
	return s.search(ctx, actor, status)
}

func (s *EnrollmentService) search(ctx context.Context, actor policy.Actor, status models.EnrollmentStatus) ([]models.Enrollment, error) {
	scope := repositories.EnrollmentScope{Status: status}
	switch {
	case actor.IsAdmin():
	case actor.IsMentor():
		if actor.MentorID == 0 {
			return []models.Enrollment{}, nil
		}
		scope.MentorID = actor.MentorID
	default:
		if actor.StudentID == 0 {
			return []models.Enrollment{}, nil
		}
		scope.StudentID = actor.StudentID
	}
	return s.enrollments.Search(ctx, scope)
}

func (s *EnrollmentService) ByCourse(ctx context.Context, actor policy.Actor, courseID uint) ([]models.Enrollment, error) {
	course, err := s.courses.FindByID(ctx, courseID, "Mentor")
	if err != nil {
		return nil, err
	}
	if err := actor.Authorize(policy.EnrollmentListCourse, policy.Resource{MentorID: course.MentorID}); err != nil {
		return nil, err
	}
	return s.enrollments.ByCourse(ctx, courseID)
}

func (s *EnrollmentService) ByStudent(ctx context.Context, actor policy.Actor, studentID uint) ([]models.Enrollment, error) {
	if _, err := s.students.FindByID(ctx, studentID); err != nil {
		return nil, err
	}
	if err := actor.Authorize(policy.EnrollmentListStudent, policy.Resource{StudentID: studentID}); err != nil {
		return nil, err
	}
	return s.enrollments.ByStudent(ctx, studentID)
}

// GrantAccess makes sure a paying student holds an approved enrollment. A pending enrollment
// is approved, a missing one is created approved. Rejected enrollments are terminal and left
// as they are.
func (s *EnrollmentService) GrantAccess(ctx context.Context, studentID, courseID uint) (*models.Enrollment, error) {
	for attempt := 0; attempt < 2; attempt++ {
		existing, err := s.enrollments.FindActive(ctx, studentID, courseID)
		if err != nil && !apperr.Is(err, apperr.KindNotFound) {
			return nil, err
		}

		if existing == nil {
			enrollment := &models.Enrollment{StudentID: studentID, CourseID: courseID, Status: models.EnrollmentApproved}
			err := s.enrollments.Create(ctx, enrollment)
			if apperr.Is(err, apperr.KindConflict) {
				// Lost a race with a concurrent enroll; resolve against the winner.
				continue
			}
			if err != nil {
				return nil, err
			}
			s.log.Info("access granted", "enrollment_id", enrollment.ID, "student_id", studentID, "course_id", courseID)
			s.publish(ctx, events.EnrollmentCreated, enrollment)
			return enrollment, nil
		}

		switch existing.Status {
		case models.EnrollmentPending:
			if err := s.enrollments.Updates(ctx, existing.ID, map[string]interface{}{"status": models.EnrollmentApproved}); err != nil {
				return nil, err
			}
			existing.Status = models.EnrollmentApproved
			s.log.Info("pending enrollment approved after payment", "enrollment_id", existing.ID)
			s.publish(ctx, events.EnrollmentStatusChanged, existing, "previous_status", string(models.EnrollmentPending))
		case models.EnrollmentRejected:
			s.log.Warn("payment received for rejected enrollment", "enrollment_id", existing.ID, "student_id", studentID)
		}
		return existing, nil
	}
	return nil, apperr.Conflict("Enrollment changed concurrently, please retry")
}

func (s *EnrollmentService) resourceOf(e *models.Enrollment) policy.Resource {
	res := policy.Resource{StudentID: e.StudentID}
	if e.Course != nil {
		res.MentorID = e.Course.MentorID
	}
	return res
}

func (s *EnrollmentService) publish(ctx context.Context, eventType string, e *models.Enrollment, extra ...string) {
	data := map[string]interface{}{
		"enrollment_id": e.ID,
		"student_id":    e.StudentID,
		"course_id":     e.CourseID,
		"status":        string(e.Status),
		"progress":      e.Progress,
	}
	for i := 0; i+1 < len(extra); i += 2 {
		data[extra[i]] = extra[i+1]
	}
	_ = s.events.Publish(ctx, "enrollment-"+strconv.FormatUint(uint64(e.ID), 10), events.New(eventType, data))
}
