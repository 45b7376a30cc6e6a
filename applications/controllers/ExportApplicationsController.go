package controllers

import (
	"forems-backend/applications/services"
	"forems-backend/config"
	"forems-backend/db/models"
	"forems-backend/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type applicationExportRow struct {
	ApplicationID string
	Tenant        string
	Property      string
	Status        string
	Score         int
	PaymentStatus string
	SubmittedAt   string
}

// ExportApplicationsController writes applications to an Excel file,
// optionally filtered to one property, and returns the download path.
func (ac *ApplicationController) ExportApplicationsController(c *fiber.Ctx) error {
	var applications []models.Application
	var err error

	if propertyParam := c.Query("property_id"); propertyParam != "" {
		propertyID := utils.StringToUUIDPtr(propertyParam)
		if propertyID == nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid property_id",
			})
		}
		applications, err = ac.ApplicationRepo.GetApplicationsByProperty(*propertyID)
	} else {
		applications, err = ac.ApplicationRepo.GetAllApplications()
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to fetch applications for export",
			"error":   err.Error(),
		})
	}

	rows := make([]applicationExportRow, 0, len(applications))
	for _, application := range applications {
		rows = append(rows, applicationExportRow{
			ApplicationID: application.ID.String(),
			Tenant:        application.TenantNameSnapshot,
			Property:      application.Property.Title,
			Status:        string(application.Status),
			Score:         services.ScoreApplication(application),
			PaymentStatus: string(application.ContractPayment.Status),
			SubmittedAt:   application.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	headers := []string{"ApplicationID", "Tenant", "Property", "Status", "Score", "PaymentStatus", "SubmittedAt"}
	filePath, err := utils.GenerateExcel(rows, "applications_export", headers)
	if err != nil {
		config.Logger.Error("Failed to generate applications export", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to generate export file",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Export generated",
		"data": fiber.Map{
			"file_path": filePath,
			"count":     len(rows),
		},
	})
}
