package authValidator

import (
	"coursehub/validators"

	"github.com/gofiber/fiber/v2"
)

const (
	RegisterKey = "validatedRegister"
	LoginKey    = "validatedLogin"
)

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=mentor student"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func Register() fiber.Handler {
	return validators.Body[RegisterRequest](RegisterKey)
}

func Login() fiber.Handler {
	return validators.Body[LoginRequest](LoginKey)
}
