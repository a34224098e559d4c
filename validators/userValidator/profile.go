package userValidator

import (
	"coursehub/validators"

	"github.com/gofiber/fiber/v2"
)

const (
	MentorKey       = "validatedMentor"
	StudentKey      = "validatedStudent"
	SpecialityKey   = "validatedSpeciality"
	StudentLevelKey = "validatedStudentLevel"
)

type CreateMentorRequest struct {
	Speciality      *string   `json:"speciality" validate:"required,max=255"`
	Description     *string   `json:"description"`
	ExperienceLevel *string   `json:"experience_level" validate:"required,oneof=beginner intermediate expert"`
	Skills          *[]string `json:"skills"`
}

type UpdateMentorRequest struct {
	Speciality      *string   `json:"speciality" validate:"omitempty,max=255"`
	Description     *string   `json:"description"`
	ExperienceLevel *string   `json:"experience_level" validate:"omitempty,oneof=beginner intermediate expert"`
	Skills          *[]string `json:"skills"`
}

// StudentRequest serves create and update; every student field is optional.
type StudentRequest struct {
	Description *string   `json:"description"`
	Level       *string   `json:"level" validate:"omitempty,oneof=beginner intermediate advanced"`
	Interests   *[]string `json:"interests"`
}

type SpecialityRequest struct {
	Speciality string `query:"speciality" validate:"required"`
}

type StudentLevelRequest struct {
	Level string `query:"level" validate:"required,oneof=beginner intermediate advanced"`
}

func CreateMentor() fiber.Handler {
	return validators.Body[CreateMentorRequest](MentorKey)
}

func UpdateMentor() fiber.Handler {
	return validators.Body[UpdateMentorRequest](MentorKey)
}

func Student() fiber.Handler {
	return validators.Body[StudentRequest](StudentKey)
}

func MentorsBySpeciality() fiber.Handler {
	return validators.Query[SpecialityRequest](SpecialityKey)
}

func StudentsByLevel() fiber.Handler {
	return validators.Query[StudentLevelRequest](StudentLevelKey)
}
