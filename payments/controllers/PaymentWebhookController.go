package controllers

import (
	"errors"

	"forems-backend/config"
	"forems-backend/payments/requests"
	"forems-backend/payments/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// PaymentWebhookController receives provider callbacks. Deliveries are
// at-least-once, so re-delivery of a settled payment must still return
// 200 or the provider keeps retrying forever.
func (pc *PaymentController) PaymentWebhookController(c *fiber.Ctx) error {
	var request requests.PaymentWebhookRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid webhook payload",
			"error":   err.Error(),
		})
	}

	if validationError := request.Validate(); validationError != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": validationError,
		})
	}

	outcome, err := pc.ReconciliationService.Reconcile(
		c.Context(),
		request.Reference(),
		request.Data.PayStatus,
		c.Body(),
	)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrValidation):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid webhook payload",
			})
		case errors.Is(err, services.ErrReferenceNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Unknown payment reference",
			})
		default:
			config.Logger.Error("Webhook reconciliation failed",
				zap.String("reference", request.Reference()),
				zap.Error(err),
			)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Something went wrong while processing the webhook",
			})
		}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Webhook processed",
		"data": fiber.Map{
			"status":             outcome.Status,
			"applied":            outcome.Applied,
			"already_reconciled": outcome.AlreadyReconciled,
		},
	})
}
