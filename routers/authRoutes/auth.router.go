package authRoutes

import (
	authController "coursehub/controllers/auth"
	"coursehub/services"
	authValidator "coursehub/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(router fiber.Router, svc *services.Container, auth fiber.Handler) {
	ctl := authController.New(svc.Identity)
	authGroup := router.Group("/auth")

	authGroup.Post("/register", authValidator.Register(), ctl.Register)
	authGroup.Post("/login", authValidator.Login(), ctl.Login)
	authGroup.Post("/logout", auth, ctl.Logout)
	authGroup.Post("/refresh", auth, ctl.Refresh)
	authGroup.Get("/user", auth, ctl.Me)
}
