package courseController

import (
	"coursehub/middleware"
	"coursehub/models"
	"coursehub/services"
	"coursehub/validators"
	enrollmentValidator "coursehub/validators/enrollment"

	"github.com/gofiber/fiber/v2"
)

// ListEnrollments returns the enrollments the caller may see, optionally narrowed by status.
func (ctl *Controller) ListEnrollments(c *fiber.Ctx) error {
	reqData := validators.Validated[enrollmentValidator.EnrollmentListRequest](c, enrollmentValidator.EnrollmentListKey)

	var (
		enrollments []models.Enrollment
		err         error
	)
	if reqData.Status != "" {
		enrollments, err = ctl.enrollments.ByStatus(c.UserContext(), middleware.Actor(c), models.EnrollmentStatus(reqData.Status))
	} else {
		enrollments, err = ctl.enrollments.List(c.UserContext(), middleware.Actor(c))
	}
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "", fiber.Map{"enrollments": enrollments})
}

func (ctl *Controller) Enroll(c *fiber.Ctx) error {
	reqData := validators.Validated[enrollmentValidator.EnrollRequest](c, enrollmentValidator.EnrollKey)

	enrollment, err := ctl.enrollments.Enroll(c.UserContext(), middleware.Actor(c), reqData.CourseID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, "Enrollment created successfully", fiber.Map{"enrollment": enrollment})
}

func (ctl *Controller) GetEnrollment(c *fiber.Ctx) error {
	enrollment, err := ctl.enrollments.Get(c.UserContext(), middleware.Actor(c), validators.ID(c, "id"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "", fiber.Map{"enrollment": enrollment})
}

func (ctl *Controller) UpdateEnrollment(c *fiber.Ctx) error {
	reqData := validators.Validated[enrollmentValidator.UpdateEnrollmentRequest](c, enrollmentValidator.EnrollmentUpdateKey)

	in := services.EnrollmentUpdate{
		Progress:           reqData.Progress,
		LastWatchedVideoID: reqData.LastWatchedVideoID,
	}
	if reqData.Status != nil {
		status := models.EnrollmentStatus(*reqData.Status)
		in.Status = &status
	}

	enrollment, err := ctl.enrollments.Update(c.UserContext(), middleware.Actor(c), validators.ID(c, "id"), in)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "Enrollment updated successfully", fiber.Map{"enrollment": enrollment})
}

func (ctl *Controller) DeleteEnrollment(c *fiber.Ctx) error {
	if err := ctl.enrollments.Delete(c.UserContext(), middleware.Actor(c), validators.ID(c, "id")); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "Enrollment deleted successfully", nil)
}

func (ctl *Controller) CompleteEnrollment(c *fiber.Ctx) error {
	enrollment, err := ctl.enrollments.Complete(c.UserContext(), middleware.Actor(c), validators.ID(c, "id"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "Enrollment marked as complete", fiber.Map{"enrollment": enrollment})
}

func (ctl *Controller) CourseEnrollments(c *fiber.Ctx) error {
	enrollments, err := ctl.enrollments.ByCourse(c.UserContext(), middleware.Actor(c), validators.ID(c, "id"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "", fiber.Map{"enrollments": enrollments})
}

func (ctl *Controller) StudentEnrollments(c *fiber.Ctx) error {
	enrollments, err := ctl.enrollments.ByStudent(c.UserContext(), middleware.Actor(c), validators.ID(c, "id"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "", fiber.Map{"enrollments": enrollments})
}
