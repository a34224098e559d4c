package middleware

import (
	"coursehub/models"

	"github.com/gofiber/fiber/v2"
)

// RequireRole returns a middleware that lets only the given roles through. It must run after
// JWTMiddleware. Finer ownership checks stay in the services.
func RequireRole(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := Actor(c)
		if actor.UserID == 0 {
			return JsonResponse(c, fiber.StatusUnauthorized, "Unauthorized: User ID not found", nil)
		}
		for _, role := range roles {
			if actor.Role == role {
				return c.Next()
			}
		}
		return JsonResponse(c, fiber.StatusForbidden, "You do not have permission to access this resource!", nil)
	}
}
