package paymentController

import (
	"coursehub/middleware"
	"coursehub/models"
	"coursehub/services"
	"coursehub/validators"
	paymentValidator "coursehub/validators/payment"

	"github.com/gofiber/fiber/v2"
)

type Controller struct {
	payments *services.PaymentService
}

func New(payments *services.PaymentService) *Controller {
	return &Controller{payments: payments}
}

func (ctl *Controller) ListPayments(c *fiber.Ctx) error {
	payments, err := ctl.payments.List(c.UserContext(), middleware.Actor(c))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "", fiber.Map{"payments": payments})
}

// Checkout opens a hosted checkout session and returns where to send the student.
func (ctl *Controller) Checkout(c *fiber.Ctx) error {
	reqData := validators.Validated[paymentValidator.CheckoutRequest](c, paymentValidator.CheckoutKey)

	result, err := ctl.payments.Checkout(c.UserContext(), middleware.Actor(c), reqData.CourseID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "", fiber.Map{
		"checkout_url": result.CheckoutURL,
		"session_id":   result.SessionID,
	})
}

// Success is the provider's return redirect. It is public: the session reference is the only
// credential, and access is granted only when the provider confirms the payment.
func (ctl *Controller) Success(c *fiber.Ctx) error {
	reqData := validators.Validated[paymentValidator.CallbackRequest](c, paymentValidator.CallbackKey)

	payment, err := ctl.payments.HandleSuccess(c.UserContext(), reqData.Reference())
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	message := "Payment successful"
	if payment.ConfirmedAt == nil {
		message = "Payment is being processed"
	}
	return middleware.JsonResponse(c, fiber.StatusOK, message, fiber.Map{"payment": payment})
}

func (ctl *Controller) Cancel(c *fiber.Ctx) error {
	reqData := validators.Validated[paymentValidator.CallbackRequest](c, paymentValidator.CallbackKey)

	payment, err := ctl.payments.HandleCancel(c.UserContext(), reqData.Reference())
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "Payment cancelled", fiber.Map{"payment": payment})
}

func (ctl *Controller) History(c *fiber.Ctx) error {
	payments, err := ctl.payments.History(c.UserContext(), middleware.Actor(c))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "", fiber.Map{"payments": payments})
}

func (ctl *Controller) ByStatus(c *fiber.Ctx) error {
	payments, err := ctl.payments.ByStatus(c.UserContext(), middleware.Actor(c), models.PaymentStatus(c.Params("status")))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "", fiber.Map{"payments": payments})
}

func (ctl *Controller) ByCourse(c *fiber.Ctx) error {
	payments, err := ctl.payments.ByCourse(c.UserContext(), middleware.Actor(c), validators.ID(c, "id"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "", fiber.Map{"payments": payments})
}

func (ctl *Controller) GetPayment(c *fiber.Ctx) error {
	payment, err := ctl.payments.Get(c.UserContext(), middleware.Actor(c), validators.ID(c, "id"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "", fiber.Map{"payment": payment})
}
