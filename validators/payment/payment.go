package paymentValidator

import (
	"coursehub/validators"

	"github.com/gofiber/fiber/v2"
)

const (
	CheckoutKey = "validatedCheckout"
	CallbackKey = "validatedPaymentCallback"
)

type CheckoutRequest struct {
	CourseID uint `json:"course_id" validate:"required,gt=0"`
}

// CallbackRequest is the provider redirect. Stripe sends session_id, Midtrans sends order_id.
type CallbackRequest struct {
	SessionID string `query:"session_id" validate:"required_without=OrderID,max=255"`
	OrderID   string `query:"order_id" validate:"max=255"`
}

func (r *CallbackRequest) Reference() string {
	if r.SessionID != "" {
		return r.SessionID
	}
	return r.OrderID
}

func Checkout() fiber.Handler {
	return validators.Body[CheckoutRequest](CheckoutKey)
}

func Callback() fiber.Handler {
	return validators.Query[CallbackRequest](CallbackKey)
}
