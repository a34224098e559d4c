package services

import (
	"context"

	"coursehub/apperr"
	"coursehub/logger"
	"coursehub/models"
	"coursehub/policy"
	"coursehub/repositories"
)

const topProfilesLimit = 10

// ProfileService manages the mentor and student extensions of users.
type ProfileService struct {
	mentors  *repositories.MentorRepository
	students *repositories.StudentRepository
	badges   *repositories.BadgeRepository
	log      *logger.Logger
}

func NewProfileService(
	mentors *repositories.MentorRepository,
	students *repositories.StudentRepository,
	badges *repositories.BadgeRepository,
	log *logger.Logger,
) *ProfileService {
	return &ProfileService{mentors: mentors, students: students, badges: badges, log: log.With("service", "ProfileService")}
}

// MentorInput carries mentor profile fields. Nil fields are left untouched on update.
type MentorInput struct {
	Speciality      *string
	Description     *string
	ExperienceLevel *string
	Skills          *[]string
}

func (in MentorInput) apply(m *models.Mentor) {
	if in.Speciality != nil {
		m.Speciality = *in.Speciality
	}
	if in.Description != nil {
		m.Description = *in.Description
	}
	if in.ExperienceLevel != nil {
		m.ExperienceLevel = *in.ExperienceLevel
	}
	if in.Skills != nil {
		m.Skills = *in.Skills
	}
}

func (s *ProfileService) CreateMentor(ctx context.Context, actor policy.Actor, in MentorInput) (*models.Mentor, error) {
	if err := actor.Authorize(policy.MentorProfileOpen, policy.Resource{}); err != nil {
		return nil, err
	}
	exists, err := s.mentors.HasProfile(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Conflict("Mentor profile already exists for this user")
	}

	mentor := &models.Mentor{UserID: actor.UserID}
	in.apply(mentor)
	if err := s.mentors.Create(ctx, mentor); err != nil {
		if apperr.Is(err, apperr.KindConflict) {
			return nil, apperr.Conflict("Mentor profile already exists for this user")
		}
		return nil, err
	}
	s.log.Info("mentor profile created", "mentor_id", mentor.ID, "user_id", actor.UserID)
	return s.mentors.FindByID(ctx, mentor.ID)
}

func (s *ProfileService) UpdateMentor(ctx context.Context, actor policy.Actor, id uint, in MentorInput) (*models.Mentor, error) {
	mentor, err := s.mentors.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := actor.Authorize(policy.ProfileManage, policy.Resource{OwnerUserID: mentor.UserID}); err != nil {
		return nil, err
	}
	in.apply(mentor)
	if err := s.mentors.Save(ctx, mentor); err != nil {
		return nil, err
	}
	return mentor, nil
}

func (s *ProfileService) DeleteMentor(ctx context.Context, actor policy.Actor, id uint) error {
	mentor, err := s.mentors.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := actor.Authorize(policy.ProfileManage, policy.Resource{OwnerUserID: mentor.UserID}); err != nil {
		return err
	}
	return s.mentors.Delete(ctx, id)
}

func (s *ProfileService) ListMentors(ctx context.Context) ([]models.Mentor, error) {
	return s.mentors.All(ctx)
}

// GetMentor loads the mentor with its live courses and awarded badges.
func (s *ProfileService) GetMentor(ctx context.Context, id uint) (*models.Mentor, []models.Badge, error) {
	mentor, err := s.mentors.FindByID(ctx, id, "User", "Courses")
	if err != nil {
		return nil, nil, err
	}
	mentor.CoursesCount = int64(len(mentor.Courses))
	badges, err := s.badges.MentorBadges(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return mentor, badges, nil
}

func (s *ProfileService) TopMentors(ctx context.Context) ([]models.Mentor, error) {
	return s.mentors.Top(ctx, topProfilesLimit)
}

func (s *ProfileService) MentorsBySpeciality(ctx context.Context, speciality string) ([]models.Mentor, error) {
	return s.mentors.BySpeciality(ctx, speciality)
}

func (s *ProfileService) MentorByUser(ctx context.Context, userID uint) (*models.Mentor, error) {
	mentor, err := s.mentors.FindByUserID(ctx, userID)
	if apperr.Is(err, apperr.KindNotFound) {
		return nil, apperr.NotFound("Mentor profile not found")
	}
	return mentor, err
}

type StudentInput struct {
	Description *string
	Level       *string
	Interests   *[]string
}

func (in StudentInput) apply(st *models.Student) {
	if in.Description != nil {
		st.Description = *in.Description
	}
	if in.Level != nil {
		st.Level = *in.Level
	}
	if in.Interests != nil {
		st.Interests = *in.Interests
	}
}

func (s *ProfileService) CreateStudent(ctx context.Context, actor policy.Actor, in StudentInput) (*models.Student, error) {
	if err := actor.Authorize(policy.StudentProfileOpen, policy.Resource{}); err != nil {
		return nil, err
	}
	exists, err := s.students.HasProfile(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Conflict("Student profile already exists for this user")
	}

	student := &models.Student{UserID: actor.UserID}
	in.apply(student)
	if err := s.students.Create(ctx, student); err != nil {
		if apperr.Is(err, apperr.KindConflict) {
			return nil, apperr.Conflict("Student profile already exists for this user")
		}
		return nil, err
	}
	s.log.Info("student profile created", "student_id", student.ID, "user_id", actor.UserID)
	return s.students.FindByID(ctx, student.ID)
}

func (s *ProfileService) UpdateStudent(ctx context.Context, actor policy.Actor, id uint, in StudentInput) (*models.Student, error) {
	student, err := s.students.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := actor.Authorize(policy.ProfileManage, policy.Resource{OwnerUserID: student.UserID}); err != nil {
		return nil, err
	}
	in.apply(student)
	if err := s.students.Save(ctx, student); err != nil {
		return nil, err
	}
	return student, nil
}

func (s *ProfileService) DeleteStudent(ctx context.Context, actor policy.Actor, id uint) error {
	student, err := s.students.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := actor.Authorize(policy.ProfileManage, policy.Resource{OwnerUserID: student.UserID}); err != nil {
		return err
	}
	return s.students.Delete(ctx, id)
}

func (s *ProfileService) ListStudents(ctx context.Context) ([]models.Student, error) {
	return s.students.All(ctx)
}

func (s *ProfileService) GetStudent(ctx context.Context, id uint) (*models.Student, error) {
	student, err := s.students.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	badges, err := s.badges.StudentBadges(ctx, id)
	if err != nil {
		return nil, err
	}
	student.Badges = badges
	return student, nil
}

func (s *ProfileService) TopStudents(ctx context.Context) ([]models.Student, error) {
	return s.students.Top(ctx, topProfilesLimit)
}

func (s *ProfileService) StudentsByLevel(ctx context.Context, level string) ([]models.Student, error) {
	return s.students.ByLevel(ctx, level)
}

func (s *ProfileService) StudentByUser(ctx context.Context, userID uint) (*models.Student, error) {
	student, err := s.students.FindByUserID(ctx, userID)
	if apperr.Is(err, apperr.KindNotFound) {
		return nil, apperr.NotFound("Student profile not found")
	}
	return student, err
}
