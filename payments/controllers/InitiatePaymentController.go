package controllers

import (
	"errors"

	"forems-backend/config"
	"forems-backend/payments/requests"
	"forems-backend/payments/services"
	"forems-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type PaymentController struct {
	ReferenceService      *services.ReferenceService
	ReconciliationService *services.ReconciliationService
}

// InitiatePaymentController mints (or resumes) a payment reference for an
// application's tenancy contract fee.
func (pc *PaymentController) InitiatePaymentController(c *fiber.Ctx) error {
	applicationID := utils.StringToUUIDPtr(c.Params("id"))
	if applicationID == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid application ID",
		})
	}

	var request requests.InitiatePaymentRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request payload",
			"error":   err.Error(),
		})
	}

	amount, err := decimal.NewFromString(request.Amount)
	if err != nil || amount.LessThanOrEqual(decimal.Zero) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Amount must be a positive decimal string",
		})
	}

	reference, err := pc.ReferenceService.Initiate(c.Context(), *applicationID, amount)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Application not found",
			})
		case errors.Is(err, services.ErrContractNotRequired):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": "This property does not require a tenancy contract payment",
			})
		case errors.Is(err, services.ErrAlreadyPaid):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": "Contract payment already completed for this application",
			})
		default:
			config.Logger.Error("Failed to initiate contract payment",
				zap.String("applicationID", applicationID.String()),
				zap.Error(err),
			)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Something went wrong while initiating the payment",
				"error":   err.Error(),
			})
		}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Payment initiated",
		"data": fiber.Map{
			"payment_reference": reference,
			"amount":            amount.String(),
		},
	})
}
