package authController

import (
	"coursehub/middleware"
	"coursehub/models"
	"coursehub/services"
	"coursehub/validators"
	authValidator "coursehub/validators/auth"

	"github.com/gofiber/fiber/v2"
)

type Controller struct {
	identity *services.IdentityService
}

func New(identity *services.IdentityService) *Controller {
	return &Controller{identity: identity}
}

func (ctl *Controller) Register(c *fiber.Ctx) error {
	reqData := validators.Validated[authValidator.RegisterRequest](c, authValidator.RegisterKey)

	result, err := ctl.identity.Register(c.UserContext(), services.RegisterInput{
		Name:     reqData.Name,
		Email:    reqData.Email,
		Password: reqData.Password,
		Role:     models.Role(reqData.Role),
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, "User registered successfully", authBody(result))
}

func (ctl *Controller) Login(c *fiber.Ctx) error {
	reqData := validators.Validated[authValidator.LoginRequest](c, authValidator.LoginKey)

	result, err := ctl.identity.Login(c.UserContext(), reqData.Email, reqData.Password)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Login successful", authBody(result))
}

func (ctl *Controller) Logout(c *fiber.Ctx) error {
	if err := ctl.identity.Logout(c.UserContext(), middleware.Claims(c)); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "Successfully logged out", nil)
}

func (ctl *Controller) Refresh(c *fiber.Ctx) error {
	result, err := ctl.identity.Refresh(c.UserContext(), middleware.Claims(c))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "Token refreshed", authBody(result))
}

// Me returns the caller with both profiles loaded.
func (ctl *Controller) Me(c *fiber.Ctx) error {
	user, err := ctl.identity.Me(c.UserContext(), middleware.Actor(c).UserID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "", fiber.Map{"user": user})
}

func authBody(result *services.AuthResult) fiber.Map {
	return fiber.Map{
		"user":         result.User,
		"access_token": result.Token,
		"token_type":   result.TokenType,
		"expires_at":   result.ExpiresAt,
	}
}
