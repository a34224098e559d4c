package middleware

import (
	"strings"

	"coursehub/policy"
	"coursehub/services"

	"github.com/gofiber/fiber/v2"
)

const (
	localUserID = "userId"
	localActor  = "actor"
	localClaims = "claims"
)

// JWTMiddleware checks the bearer token, rejects revoked ones and stores the caller in the
// request context.
func JWTMiddleware(identity *services.IdentityService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Get the token from the Authorization header
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return JsonResponse(c, fiber.StatusUnauthorized, "Missing or invalid Authorization header", nil)
		}

		// The token should be prefixed with "Bearer "
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return JsonResponse(c, fiber.StatusUnauthorized, "Invalid Authorization header format", nil)
		}
		tokenString := strings.TrimSpace(authHeader[len("Bearer "):])

		actor, claims, err := identity.Authenticate(c.UserContext(), tokenString)
		if err != nil {
			return ErrorResponse(c, err)
		}

		c.Locals(localUserID, actor.UserID)
		c.Locals(localActor, actor)
		c.Locals(localClaims, claims)
		return c.Next()
	}
}

// Actor returns the caller stored by JWTMiddleware. Public routes get the zero Actor.
func Actor(c *fiber.Ctx) policy.Actor {
	actor, _ := c.Locals(localActor).(policy.Actor)
	return actor
}

func Claims(c *fiber.Ctx) *services.TokenClaims {
	claims, _ := c.Locals(localClaims).(*services.TokenClaims)
	return claims
}
