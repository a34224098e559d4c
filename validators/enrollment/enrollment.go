package enrollmentValidator

import (
	"coursehub/validators"

	"github.com/gofiber/fiber/v2"
)

const (
	EnrollKey           = "validatedEnroll"
	EnrollmentUpdateKey = "validatedEnrollmentUpdate"
	EnrollmentListKey   = "validatedEnrollmentList"
)

type EnrollRequest struct {
	CourseID uint `json:"course_id" validate:"required,gt=0"`
}

type UpdateEnrollmentRequest struct {
	Status             *string `json:"status" validate:"omitempty,oneof=pending approved rejected"`
	Progress           *int    `json:"progress" validate:"omitempty,min=0,max=100"`
	LastWatchedVideoID *uint   `json:"last_watched_video_id" validate:"omitempty,gt=0"`
}

type EnrollmentListRequest struct {
	Status string `query:"status" validate:"omitempty,oneof=pending approved rejected"`
}

func Enroll() fiber.Handler {
	return validators.Body[EnrollRequest](EnrollKey)
}

func UpdateEnrollment() fiber.Handler {
	return validators.Body[UpdateEnrollmentRequest](EnrollmentUpdateKey)
}

func EnrollmentList() fiber.Handler {
	return validators.Query[EnrollmentListRequest](EnrollmentListKey)
}
