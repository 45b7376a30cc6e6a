package controllers

import (
	"errors"

	"forems-backend/config"
	"forems-backend/db/models"
	"forems-backend/properties/repositories"
	"forems-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type PropertyController struct {
	PropertyRepo repositories.PropertyRepository
	DB           *gorm.DB
}

type CreatePropertyRequest struct {
	Title                   string `json:"title"`
	Address                 string `json:"address"`
	City                    string `json:"city"`
	State                   string `json:"state"`
	RentAmount              string `json:"rent_amount"`
	RentCurrency            string `json:"rent_currency"`
	RequiresTenancyContract bool   `json:"requires_tenancy_contract"`
	RequiresGuarantorForm   bool   `json:"requires_guarantor_form"`
	LandlordID              string `json:"landlord_id"`
	ManagerID               string `json:"manager_id"`
	CreatedBy               string `json:"created_by"`
}

func (pc *PropertyController) CreatePropertyController(c *fiber.Ctx) error {
	var request CreatePropertyRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request payload",
			"error":   err.Error(),
		})
	}

	if request.Title == "" || request.Address == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "title and address are required",
		})
	}

	landlordID := utils.StringToUUIDPtr(request.LandlordID)
	if landlordID == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid landlord_id",
		})
	}

	rentAmount, err := decimal.NewFromString(request.RentAmount)
	if err != nil || rentAmount.IsNegative() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "rent_amount must be a non-negative decimal string",
		})
	}

	currency := request.RentCurrency
	if currency == "" {
		currency = "NGN"
	}

	property := models.Property{
		Title:                   request.Title,
		Address:                 request.Address,
		City:                    request.City,
		State:                   request.State,
		RentAmount:              rentAmount,
		RentCurrency:            currency,
		RequiresTenancyContract: request.RequiresTenancyContract,
		RequiresGuarantorForm:   request.RequiresGuarantorForm,
		LandlordID:              *landlordID,
		ManagerID:               utils.StringToUUIDPtr(request.ManagerID),
		CreatedBy:               request.CreatedBy,
	}

	tx := pc.DB.Begin()
	if tx.Error != nil {
		config.Logger.Error("Failed to begin database transaction", zap.Error(tx.Error))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Internal server error: Could not start database transaction",
		})
	}

	created, err := pc.PropertyRepo.CreateProperty(tx, &property)
	if err != nil {
		tx.Rollback()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Something went wrong while creating the property",
			"error":   err.Error(),
		})
	}

	if err := tx.Commit().Error; err != nil {
		config.Logger.Error("Failed to commit database transaction", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Internal server error: Could not commit database transaction",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Property successfully created",
		"data":    created,
	})
}

func (pc *PropertyController) GetAvailablePropertiesController(c *fiber.Ctx) error {
	properties, err := pc.PropertyRepo.GetAvailableProperties()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to fetch properties",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Properties fetched",
		"data":    properties,
	})
}

func (pc *PropertyController) GetPropertyController(c *fiber.Ctx) error {
	propertyID := utils.StringToUUIDPtr(c.Params("id"))
	if propertyID == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid property ID",
		})
	}

	property, err := pc.PropertyRepo.GetPropertyByID(*propertyID)
	if err != nil {
		if errors.Is(err, repositories.ErrPropertyNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Property not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to fetch property",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Property fetched",
		"data":    property,
	})
}
