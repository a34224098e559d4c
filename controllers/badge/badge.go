package badgeController

import (
	"coursehub/middleware"
	"coursehub/models"
	"coursehub/services"
	"coursehub/validators"
	badgeValidator "coursehub/validators/badge"

	"github.com/gofiber/fiber/v2"
)

type Controller struct {
	badges *services.BadgeService
}

func New(badges *services.BadgeService) *Controller {
	return &Controller{badges: badges}
}

func (ctl *Controller) ListBadges(c *fiber.Ctx) error {
	badges, err := ctl.badges.List(c.UserContext())
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "", fiber.Map{"badges": badges})
}

func (ctl *Controller) ByType(c *fiber.Ctx) error {
	badges, err := ctl.badges.ByType(c.UserContext(), models.BadgeType(c.Params("type")))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "", fiber.Map{"badges": badges})
}

func (ctl *Controller) GetBadge(c *fiber.Ctx) error {
	badge, err := ctl.badges.Get(c.UserContext(), validators.ID(c, "id"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "", fiber.Map{"badge": badge})
}

func (ctl *Controller) CreateBadge(c *fiber.Ctx) error {
	reqData := validators.Validated[badgeValidator.CreateBadgeRequest](c, badgeValidator.BadgeKey)

	badge, err := ctl.badges.Create(c.UserContext(), middleware.Actor(c), services.BadgeInput{
		Name:         reqData.Name,
		ImagePath:    reqData.ImagePath,
		Description:  reqData.Description,
		Type:         badgeType(reqData.Type),
		Requirements: reqData.Requirements,
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, "Badge created successfully", fiber.Map{"badge": badge})
}

func (ctl *Controller) UpdateBadge(c *fiber.Ctx) error {
	reqData := validators.Validated[badgeValidator.UpdateBadgeRequest](c, badgeValidator.BadgeKey)

	badge, err := ctl.badges.Update(c.UserContext(), middleware.Actor(c), validators.ID(c, "id"), services.BadgeInput{
		Name:         reqData.Name,
		ImagePath:    reqData.ImagePath,
		Description:  reqData.Description,
		Type:         badgeType(reqData.Type),
		Requirements: reqData.Requirements,
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "Badge updated successfully", fiber.Map{"badge": badge})
}

func (ctl *Controller) DeleteBadge(c *fiber.Ctx) error {
	if err := ctl.badges.Delete(c.UserContext(), middleware.Actor(c), validators.ID(c, "id")); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "Badge deleted successfully", nil)
}

func (ctl *Controller) AwardToStudent(c *fiber.Ctx) error {
	reqData := validators.Validated[badgeValidator.StudentAwardRequest](c, badgeValidator.StudentAwardKey)

	student, err := ctl.badges.AwardToStudent(c.UserContext(), middleware.Actor(c), reqData.BadgeID, reqData.StudentID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "Badge awarded to student successfully", fiber.Map{"student": student})
}

func (ctl *Controller) AwardToMentor(c *fiber.Ctx) error {
	reqData := validators.Validated[badgeValidator.MentorAwardRequest](c, badgeValidator.MentorAwardKey)

	mentor, err := ctl.badges.AwardToMentor(c.UserContext(), middleware.Actor(c), reqData.BadgeID, reqData.MentorID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "Badge awarded to mentor successfully", fiber.Map{"mentor": mentor})
}

func (ctl *Controller) RemoveFromStudent(c *fiber.Ctx) error {
	reqData := validators.Validated[badgeValidator.StudentAwardRequest](c, badgeValidator.StudentAwardKey)

	student, err := ctl.badges.RemoveFromStudent(c.UserContext(), middleware.Actor(c), reqData.BadgeID, reqData.StudentID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "Badge removed from student successfully", fiber.Map{"student": student})
}

func (ctl *Controller) RemoveFromMentor(c *fiber.Ctx) error {
	reqData := validators.Validated[badgeValidator.MentorAwardRequest](c, badgeValidator.MentorAwardKey)

	mentor, err := ctl.badges.RemoveFromMentor(c.UserContext(), middleware.Actor(c), reqData.BadgeID, reqData.MentorID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "Badge removed from mentor successfully", fiber.Map{"mentor": mentor})
}

func badgeType(s *string) *models.BadgeType {
	if s == nil {
		return nil
	}
	t := models.BadgeType(*s)
	return &t
}
