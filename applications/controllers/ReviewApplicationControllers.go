package controllers

import (
	"errors"
	"time"

	"forems-backend/applications/repositories"
	"forems-backend/applications/requests"
	"forems-backend/config"
	"forems-backend/db/models"
	"forems-backend/token"
	"forems-backend/utils"
	"forems-backend/websocket"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ApproveApplicationController moves an application to APPROVED on behalf
// of the property's landlord or manager.
func (ac *ApplicationController) ApproveApplicationController(c *fiber.Ctx) error {
	return ac.reviewApplication(c, models.ApprovedApplication)
}

// RejectApplicationController moves an application to REJECTED.
func (ac *ApplicationController) RejectApplicationController(c *fiber.Ctx) error {
	return ac.reviewApplication(c, models.RejectedApplication)
}

func (ac *ApplicationController) reviewApplication(c *fiber.Ctx, decision models.ApplicationStatus) error {
	applicationID := utils.StringToUUIDPtr(c.Params("id"))
	if applicationID == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid application ID",
		})
	}

	payload, ok := c.Locals("user").(*token.Payload)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Authentication required",
		})
	}

	var request requests.ReviewApplicationRequest
	if err := c.BodyParser(&request); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request payload",
			"error":   err.Error(),
		})
	}

	var application *models.Application
	var err error
	if decision == models.ApprovedApplication {
		application, err = ac.ApplicationRepo.ProcessApplicationApproval(*applicationID, payload.UserID, request.Note)
	} else {
		application, err = ac.ApplicationRepo.ProcessApplicationRejection(*applicationID, payload.UserID, request.Note)
	}
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrApplicationNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Application not found",
			})
		case errors.Is(err, repositories.ErrNotAuthorized):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Only the property's landlord or manager may review applications",
			})
		case errors.Is(err, repositories.ErrTerminalStatus):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": "Application has already been reviewed",
			})
		case errors.Is(err, repositories.ErrContractRequired):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": "Contract payment must complete before this application can be approved",
			})
		default:
			config.Logger.Error("Failed to review application",
				zap.String("applicationID", applicationID.String()),
				zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Something went wrong while reviewing the application",
				"error":   err.Error(),
			})
		}
	}

	ac.invalidateRankedCache(application.PropertyID.String())

	if ac.BleveRepo != nil {
		if err := ac.BleveRepo.UpdateApplication(*application); err != nil {
			config.Logger.Warn("Failed to re-index reviewed application",
				zap.String("applicationID", application.ID.String()),
				zap.Error(err))
		}
	}

	if ac.Hub != nil {
		ac.Hub.BroadcastToProperty(application.PropertyID.String(), websocket.WebSocketMessage{
			Type: websocket.MessageTypeApplicationStatus,
			Payload: map[string]interface{}{
				"application_id": application.ID,
				"property_id":    application.PropertyID,
				"status":         application.Status,
			},
			Timestamp:  time.Now(),
			PropertyID: application.PropertyID.String(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Application " + string(application.Status),
		"data":    application,
	})
}
