package paymentRoutes

import (
	paymentController "coursehub/controllers/payment"
	"coursehub/services"
	"coursehub/validators"
	paymentValidator "coursehub/validators/payment"

	"github.com/gofiber/fiber/v2"
)

func SetupPaymentRoutes(router fiber.Router, svc *services.Container, auth fiber.Handler) {
	ctl := paymentController.New(svc.Payments)
	paymentGroup := router.Group("/payments")

	// Provider redirects carry no bearer token.
	paymentGroup.Get("/success", paymentValidator.Callback(), ctl.Success)
	paymentGroup.Get("/cancel", paymentValidator.Callback(), ctl.Cancel)

	paymentGroup.Get("/", auth, ctl.ListPayments)
	paymentGroup.Post("/checkout", auth, paymentValidator.Checkout(), ctl.Checkout)
	paymentGroup.Get("/history", auth, ctl.History)
	paymentGroup.Get("/status/:status", auth, ctl.ByStatus)
	paymentGroup.Get("/courses/:id", auth, validators.ParamID("id"), ctl.ByCourse)
	paymentGroup.Get("/:id", auth, validators.ParamID("id"), ctl.GetPayment)
}
