package superAdminController

import (
	"context"

	"coursehub/middleware"
	"coursehub/policy"
	"coursehub/services"

	"github.com/gofiber/fiber/v2"
)

type Controller struct {
	stats *services.StatisticsService
}

func New(stats *services.StatisticsService) *Controller {
	return &Controller{stats: stats}
}

func (ctl *Controller) Dashboard(c *fiber.Ctx) error {
	return respond(c, "dashboard", ctl.stats.Dashboard)
}

func (ctl *Controller) Enrollments(c *fiber.Ctx) error {
	return respond(c, "statistics", ctl.stats.Enrollments)
}

func (ctl *Controller) Revenue(c *fiber.Ctx) error {
	return respond(c, "statistics", ctl.stats.Revenue)
}

func (ctl *Controller) Users(c *fiber.Ctx) error {
	return respond(c, "statistics", ctl.stats.Users)
}

func (ctl *Controller) Badges(c *fiber.Ctx) error {
	return respond(c, "statistics", ctl.stats.Badges)
}

func respond[T any](c *fiber.Ctx, key string, load func(context.Context, policy.Actor) (*T, error)) error {
	stats, err := load(c.UserContext(), middleware.Actor(c))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "", fiber.Map{key: stats})
}
