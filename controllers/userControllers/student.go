package userController

import (
	"coursehub/middleware"
	"coursehub/services"
	"coursehub/validators"
	userValidator "coursehub/validators/userValidator"

	"github.com/gofiber/fiber/v2"
)

func (ctl *Controller) ListStudents(c *fiber.Ctx) error {
	students, err := ctl.profiles.ListStudents(c.UserContext())
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "", fiber.Map{"students": students})
}

func (ctl *Controller) TopStudents(c *fiber.Ctx) error {
	students, err := ctl.profiles.TopStudents(c.UserContext())
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "", fiber.Map{"students": students})
}

func (ctl *Controller) StudentsByLevel(c *fiber.Ctx) error {
	reqData := validators.Validated[userValidator.StudentLevelRequest](c, userValidator.StudentLevelKey)

	students, err := ctl.profiles.StudentsByLevel(c.UserContext(), reqData.Level)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "", fiber.Map{"students": students})
}

func (ctl *Controller) GetStudent(c *fiber.Ctx) error {
	student, err := ctl.profiles.GetStudent(c.UserContext(), validators.ID(c, "id"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "", fiber.Map{"student": student})
}

func (ctl *Controller) StudentByUser(c *fiber.Ctx) error {
	student, err := ctl.profiles.StudentByUser(c.UserContext(), validators.ID(c, "id"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "", fiber.Map{"student": student})
}

func (ctl *Controller) CreateStudent(c *fiber.Ctx) error {
	reqData := validators.Validated[userValidator.StudentRequest](c, userValidator.StudentKey)

	student, err := ctl.profiles.CreateStudent(c.UserContext(), middleware.Actor(c), studentInput(reqData))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, "Student profile created successfully", fiber.Map{"student": student})
}

func (ctl *Controller) UpdateStudent(c *fiber.Ctx) error {
	reqData := validators.Validated[userValidator.StudentRequest](c, userValidator.StudentKey)

	student, err := ctl.profiles.UpdateStudent(c.UserContext(), middleware.Actor(c), validators.ID(c, "id"), studentInput(reqData))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "Student profile updated successfully", fiber.Map{"student": student})
}

func (ctl *Controller) DeleteStudent(c *fiber.Ctx) error {
	if err := ctl.profiles.DeleteStudent(c.UserContext(), middleware.Actor(c), validators.ID(c, "id")); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "Student profile deleted successfully", nil)
}

func studentInput(r *userValidator.StudentRequest) services.StudentInput {
	return services.StudentInput{Description: r.Description, Level: r.Level, Interests: r.Interests}
}
