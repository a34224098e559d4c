package badgeValidator

import (
	"coursehub/validators"

	"github.com/gofiber/fiber/v2"
)

const (
	BadgeKey        = "validatedBadge"
	StudentAwardKey = "validatedStudentAward"
	MentorAwardKey  = "validatedMentorAward"
)

type CreateBadgeRequest struct {
	Name         *string                `json:"name" validate:"required,max=255"`
	ImagePath    *string                `json:"image_path" validate:"omitempty,max=255"`
	Description  *string                `json:"description"`
	Type         *string                `json:"type" validate:"required,oneof=student mentor"`
	Requirements map[string]interface{} `json:"requirements"`
}

type UpdateBadgeRequest struct {
	Name         *string                `json:"name" validate:"omitempty,max=255"`
	ImagePath    *string                `json:"image_path" validate:"omitempty,max=255"`
	Description  *string                `json:"description"`
	Type         *string                `json:"type" validate:"omitempty,oneof=student mentor"`
	Requirements map[string]interface{} `json:"requirements"`
}

type StudentAwardRequest struct {
	BadgeID   uint `json:"badge_id" validate:"required,gt=0"`
	StudentID uint `json:"student_id" validate:"required,gt=0"`
}

type MentorAwardRequest struct {
	BadgeID  uint `json:"badge_id" validate:"required,gt=0"`
	MentorID uint `json:"mentor_id" validate:"required,gt=0"`
}

func CreateBadge() fiber.Handler {
	return validators.Body[CreateBadgeRequest](BadgeKey)
}

func UpdateBadge() fiber.Handler {
	return validators.Body[UpdateBadgeRequest](BadgeKey)
}

func StudentAward() fiber.Handler {
	return validators.Body[StudentAwardRequest](StudentAwardKey)
}

func MentorAward() fiber.Handler {
	return validators.Body[MentorAwardRequest](MentorAwardKey)
}
