package routers

import (
	"coursehub/middleware"
	authRoutes "coursehub/routers/authRoutes"
	badgeRoutes "coursehub/routers/badgeRoutes"
	catalogRoutes "coursehub/routers/catalogRoutes"
	courseRoutes "coursehub/routers/courseRoutes"
	paymentRoutes "coursehub/routers/paymentRoutes"
	superAdminRoutes "coursehub/routers/superAdmin"
	userProfileRoutes "coursehub/routers/userRoutes"
	"coursehub/services"

	"github.com/gofiber/fiber/v2"
)

// Setup mounts every API route under /api/v1.
func Setup(app *fiber.App, svc *services.Container) {
	api := app.Group("/api/v1")
	auth := middleware.JWTMiddleware(svc.Identity)

	authRoutes.SetupAuthRoutes(api, svc, auth)
	catalogRoutes.SetupCatalogRoutes(api, svc, auth)
	userProfileRoutes.SetupUserRoutes(api, svc, auth)
	courseRoutes.SetupCourseRoutes(api, svc, auth)
	badgeRoutes.SetupBadgeRoutes(api, svc, auth)
	paymentRoutes.SetupPaymentRoutes(api, svc, auth)
	superAdminRoutes.SetupStatisticsRoutes(api, svc, auth)

	app.Use(func(c *fiber.Ctx) error {
		return middleware.JsonResponse(c, fiber.StatusNotFound, "Route not found!", nil)
	})
}
