package services

import (
	"context"
	"strconv"
	"strings"

	"coursehub/apperr"
	"coursehub/events"
	"coursehub/logger"
	"coursehub/mailer"
	"coursehub/models"
	"coursehub/policy"
	"coursehub/repositories"
)

type BadgeService struct {
	badges   *repositories.BadgeRepository
	students *repositories.StudentRepository
	mentors  *repositories.MentorRepository
	events   events.Publisher
	mail     *mailer.Mailer
	log      *logger.Logger
}

func NewBadgeService(
	badges *repositories.BadgeRepository,
	students *repositories.StudentRepository,
	mentors *repositories.MentorRepository,
	publisher events.Publisher,
	mail *mailer.Mailer,
	log *logger.Logger,
) *BadgeService {
	return &BadgeService{
		badges:   badges,
		students: students,
		mentors:  mentors,
		events:   publisher,
		mail:     mail,
		log:      log.With("service", "BadgeService"),
	}
}

type BadgeInput struct {
	Name         *string
	ImagePath    *string
	Description  *string
	Type         *models.BadgeType
	Requirements map[string]interface{}
}

func (in BadgeInput) apply(b *models.Badge) error {
	if in.Name != nil {
		b.Name = strings.TrimSpace(*in.Name)
	}
	if in.ImagePath != nil {
		b.ImagePath = *in.ImagePath
	}
	if in.Description != nil {
		b.Description = *in.Description
	}
	if in.Type != nil {
		if !in.Type.Valid() {
			return apperr.Field("type", "The selected type is invalid.")
		}
		b.Type = *in.Type
	}
	if in.Requirements != nil {
		b.Requirements = in.Requirements
	}
	if b.Name == "" {
		return apperr.Field("name", "The name field is required.")
	}
	if b.Type == "" {
		return apperr.Field("type", "The type field is required.")
	}
	return nil
}

func (s *BadgeService) Create(ctx context.Context, actor policy.Actor, in BadgeInput) (*models.Badge, error) {
	if err := actor.Authorize(policy.BadgeManage, policy.Resource{}); err != nil {
		return nil, err
	}
	badge := &models.Badge{}
	if err := in.apply(badge); err != nil {
		return nil, err
	}
	if err := s.badges.Create(ctx, badge); err != nil {
		return nil, err
	}
	s.log.Info("badge created", "badge_id", badge.ID, "type", badge.Type)
	return badge, nil
}

// Update edits a badge. Changing the type of a badge that has been awarded would leave
// mismatched pivots, so it is refused.
func (s *BadgeService) Update(ctx context.Context, actor policy.Actor, id uint, in BadgeInput) (*models.Badge, error) {
	if err := actor.Authorize(policy.BadgeManage, policy.Resource{}); err != nil {
		return nil, err
	}
	badge, err := s.badges.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Type != nil && *in.Type != badge.Type {
		held, err := s.badges.Awarded(ctx, id)
		if err != nil {
			return nil, err
		}
		if held {
			return nil, apperr.InvalidState("Cannot change the type of a badge that has been awarded")
		}
	}
	if err := in.apply(badge); err != nil {
		return nil, err
	}
	if err := s.badges.Save(ctx, badge); err != nil {
		return nil, err
	}
	return badge, nil
}

func (s *BadgeService) Delete(ctx context.Context, actor policy.Actor, id uint) error {
	if err := actor.Authorize(policy.BadgeManage, policy.Resource{}); err != nil {
		return err
	}
	return s.badges.Delete(ctx, id)
}

func (s *BadgeService) List(ctx context.Context) ([]models.Badge, error) {
	return s.badges.All(ctx)
}

func (s *BadgeService) Get(ctx context.Context, id uint) (*models.Badge, error) {
	return s.badges.FindByID(ctx, id)
}

func (s *BadgeService) ByType(ctx context.Context, t models.BadgeType) ([]models.Badge, error) {
	if !t.Valid() {
		return nil, apperr.Field("type", "The selected type is invalid.")
	}
	return s.badges.ByType(ctx, t)
}

func (s *BadgeService) AwardToStudent(ctx context.Context, actor policy.Actor, badgeID, studentID uint) (*models.Student, error) {
	if err := actor.Authorize(policy.BadgeManage, policy.Resource{}); err != nil {
		return nil, err
	}
	had, err := s.badges.StudentHasBadge(ctx, studentID, badgeID)
	if err != nil {
		return nil, err
	}
	ok, err := s.badges.AwardToStudent(ctx, badgeID, studentID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.InvalidState("This badge is not a student badge")
	}

	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if !had {
		s.announce(ctx, events.BadgeAwarded, badgeID, "student", studentID)
		if badge, err := s.badges.FindByID(ctx, badgeID); err == nil && student.User != nil {
			s.mail.SendBadgeAwarded(student.User.Email, student.User.Name, badge.Name)
		}
	}
	return student, nil
}

func (s *BadgeService) AwardToMentor(ctx context.Context, actor policy.Actor, badgeID, mentorID uint) (*models.Mentor, error) {
	if err := actor.Authorize(policy.BadgeManage, policy.Resource{}); err != nil {
		return nil, err
	}
	had, err := s.badges.MentorHasBadge(ctx, mentorID, badgeID)
	if err != nil {
		return nil, err
	}
	ok, err := s.badges.AwardToMentor(ctx, badgeID, mentorID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.InvalidState("This badge is not a mentor badge")
	}

	mentor, err := s.mentors.FindByID(ctx, mentorID)
	if err != nil {
		return nil, err
	}
	if !had {
		s.announce(ctx, events.BadgeAwarded, badgeID, "mentor", mentorID)
		if badge, err := s.badges.FindByID(ctx, badgeID); err == nil && mentor.User != nil {
			s.mail.SendBadgeAwarded(mentor.User.Email, mentor.User.Name, badge.Name)
		}
	}
	return mentor, nil
}

func (s *BadgeService) RemoveFromStudent(ctx context.Context, actor policy.Actor, badgeID, studentID uint) (*models.Student, error) {
	if err := actor.Authorize(policy.BadgeManage, policy.Resource{}); err != nil {
		return nil, err
	}
	if err := s.badges.RemoveFromStudent(ctx, badgeID, studentID); err != nil {
		return nil, err
	}
	s.announce(ctx, events.BadgeRemoved, badgeID, "student", studentID)
	return s.students.FindByID(ctx, studentID)
}

func (s *BadgeService) RemoveFromMentor(ctx context.Context, actor policy.Actor, badgeID, mentorID uint) (*models.Mentor, error) {
	if err := actor.Authorize(policy.BadgeManage, policy.Resource{}); err != nil {
		return nil, err
	}
	if err := s.badges.RemoveFromMentor(ctx, badgeID, mentorID); err != nil {
		return nil, err
	}
	s.announce(ctx, events.BadgeRemoved, badgeID, "mentor", mentorID)
	return s.mentors.FindByID(ctx, mentorID)
}

func (s *BadgeService) StudentHasBadge(ctx context.Context, studentID, badgeID uint) (bool, error) {
	return s.badges.StudentHasBadge(ctx, studentID, badgeID)
}

func (s *BadgeService) MentorHasBadge(ctx context.Context, mentorID, badgeID uint) (bool, error) {
	return s.badges.MentorHasBadge(ctx, mentorID, badgeID)
}

func (s *BadgeService) announce(ctx context.Context, eventType string, badgeID uint, holder string, holderID uint) {
	data := map[string]interface{}{"badge_id": badgeID, "holder_type": holder, "holder_id": holderID}
	key := "badge-" + strconv.FormatUint(uint64(badgeID), 10)
	_ = s.events.Publish(ctx, key, events.New(eventType, data))
}
