package routes

import (
	controllers "forems-backend/payments/controllers"
	"forems-backend/middleware"
	"forems-backend/payments/services"

	"github.com/gofiber/fiber/v2"
)

func PaymentInitRoutes(
	app *fiber.App,
	appCtx *middleware.AppContext,
	referenceService *services.ReferenceService,
	reconciliationService *services.ReconciliationService,
) {
	paymentController := &controllers.PaymentController{
		ReferenceService:      referenceService,
		ReconciliationService: reconciliationService,
	}

	api := app.Group("/api/v1")

	api.Post(
		"/applications/:id/initiate-payment",
		middleware.ProtectedRoute(appCtx),
		paymentController.InitiatePaymentController,
	)

	// Provider callback: unauthenticated but rate limited.
	api.Post(
		"/webhooks/payments",
		middleware.WebhookRateLimit(10, 20),
		paymentController.PaymentWebhookController,
	)
}
