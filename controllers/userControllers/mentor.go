package userController

import (
	"coursehub/middleware"
	"coursehub/services"
	"coursehub/validators"
	userValidator "coursehub/validators/userValidator"

	"github.com/gofiber/fiber/v2"
)

// Controller serves mentor and student profiles.
type Controller struct {
	profiles *services.ProfileService
}

func New(profiles *services.ProfileService) *Controller {
	return &Controller{profiles: profiles}
}

func (ctl *Controller) ListMentors(c *fiber.Ctx) error {
	mentors, err := ctl.profiles.ListMentors(c.UserContext())
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "", fiber.Map{"mentors": mentors})
}

func (ctl *Controller) TopMentors(c *fiber.Ctx) error {
	mentors, err := ctl.profiles.TopMentors(c.UserContext())
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "", fiber.Map{"mentors": mentors})
}

func (ctl *Controller) MentorsBySpeciality(c *fiber.Ctx) error {
	reqData := validators.Validated[userValidator.SpecialityRequest](c, userValidator.SpecialityKey)

	mentors, err := ctl.profiles.MentorsBySpeciality(c.UserContext(), reqData.Speciality)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "", fiber.Map{"mentors": mentors})
}

func (ctl *Controller) GetMentor(c *fiber.Ctx) error {
	mentor, badges, err := ctl.profiles.GetMentor(c.UserContext(), validators.ID(c, "id"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "", fiber.Map{"mentor": mentor, "badges": badges})
}

func (ctl *Controller) MentorByUser(c *fiber.Ctx) error {
	mentor, err := ctl.profiles.MentorByUser(c.UserContext(), validators.ID(c, "id"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "", fiber.Map{"mentor": mentor})
}

func (ctl *Controller) CreateMentor(c *fiber.Ctx) error {
	reqData := validators.Validated[userValidator.CreateMentorRequest](c, userValidator.MentorKey)

	mentor, err := ctl.profiles.CreateMentor(c.UserContext(), middleware.Actor(c), services.MentorInput{
		Speciality:      reqData.Speciality,
		Description:     reqData.Description,
		ExperienceLevel: reqData.ExperienceLevel,
		Skills:          reqData.Skills,
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, "Mentor profile created successfully", fiber.Map{"mentor": mentor})
}

func (ctl *Controller) UpdateMentor(c *fiber.Ctx) error {
	reqData := validators.Validated[userValidator.UpdateMentorRequest](c, userValidator.MentorKey)

	mentor, err := ctl.profiles.UpdateMentor(c.UserContext(), middleware.Actor(c), validators.ID(c, "id"), services.MentorInput{
		Speciality:      reqData.Speciality,
		Description:     reqData.Description,
		ExperienceLevel: reqData.ExperienceLevel,
		Skills:          reqData.Skills,
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "Mentor profile updated successfully", fiber.Map{"mentor": mentor})
}

func (ctl *Controller) DeleteMentor(c *fiber.Ctx) error {
	if err := ctl.profiles.DeleteMentor(c.UserContext(), middleware.Actor(c), validators.ID(c, "id")); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "Mentor profile deleted successfully", nil)
}
