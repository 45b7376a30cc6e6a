package controllers

import (
	"context"
	"errors"

	"forems-backend/applications/repositories"
	"forems-backend/applications/requests"
	indexing_repository "forems-backend/bleve/repositories"
	"forems-backend/config"
	"forems-backend/db/models"
	property_repositories "forems-backend/properties/repositories"
	user_repositories "forems-backend/users/repositories"
	"forems-backend/utils"
	"forems-backend/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ApplicationController struct {
	ApplicationRepo repositories.ApplicationRepository
	PropertyRepo    property_repositories.PropertyRepository
	UserRepo        user_repositories.UserRepository
	DB              *gorm.DB
	RedisClient     *redis.Client
	BleveRepo       indexing_repository.BleveRepositoryInterface
	Hub             *websocket.Hub
}

func (ac *ApplicationController) CreateApplicationController(c *fiber.Ctx) error {
	var request requests.CreateApplicationRequest

	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request payload",
			"error":   err.Error(),
		})
	}

	tenantID := utils.StringToUUIDPtr(request.TenantID)
	propertyID := utils.StringToUUIDPtr(request.PropertyID)
	if tenantID == nil || propertyID == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "tenant_id and property_id must be valid UUIDs",
		})
	}

	property, err := ac.PropertyRepo.GetPropertyByID(*propertyID)
	if err != nil {
		if errors.Is(err, property_repositories.ErrPropertyNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Property not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to load property",
			"error":   err.Error(),
		})
	}

	if validationError := request.Validate(property.RequiresGuarantorForm); validationError != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   validationError,
		})
	}

	tenant, err := ac.UserRepo.GetUserByID(*tenantID)
	if err != nil {
		if errors.Is(err, user_repositories.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Tenant not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to load tenant",
			"error":   err.Error(),
		})
	}

	application := models.Application{
		TenantID:           *tenantID,
		PropertyID:         *propertyID,
		TenantNameSnapshot: tenant.FullName(),
		IdentityPhotoURL:   request.IdentityPhotoURL,
		GuarantorPhotos:    datatypes.NewJSONSlice(request.GuarantorPhotos),
		FormData:           datatypes.NewJSONType(request.FormData),
		Status:             models.PendingApplication,
	}

	tx := ac.DB.Begin()
	if tx.Error != nil {
		config.Logger.Error("Failed to begin database transaction", zap.Error(tx.Error))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Internal server error: Could not start database transaction",
		})
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			config.Logger.Error("Panic detected, rolling back transaction", zap.Any("panic_reason", r))
			panic(r)
		}
	}()

	created, err := ac.ApplicationRepo.CreateApplication(tx, &application)
	if err != nil {
		tx.Rollback()
		if errors.Is(err, repositories.ErrDuplicateApplication) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": "An open application already exists for this tenant and property",
			})
		}
		config.Logger.Error("Failed to create application",
			zap.Error(err),
			zap.String("tenantID", tenantID.String()))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Something went wrong while creating the application",
			"error":   err.Error(),
		})
	}

	if ac.BleveRepo != nil {
		if err := ac.BleveRepo.IndexSingleApplication(*created); err != nil {
			tx.Rollback()
			config.Logger.Error("Failed to index application. Rolling back database transaction.",
				zap.Error(err),
				zap.String("applicationID", created.ID.String()),
			)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Application could not be created because indexing failed",
				"error":   err.Error(),
			})
		}
	}

	if err := tx.Commit().Error; err != nil {
		config.Logger.Error("Failed to commit database transaction", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Internal server error: Could not commit database transaction",
		})
	}

	ac.invalidateRankedCache(created.PropertyID.String())

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Application successfully submitted",
		"data":    created,
	})
}

// invalidateRankedCache drops the cached ranking for a property after any
// write that can change its ordering.
func (ac *ApplicationController) invalidateRankedCache(propertyID string) {
	if ac.RedisClient == nil {
		return
	}
	if err := ac.RedisClient.Del(context.Background(), rankedCacheKey(propertyID)).Err(); err != nil {
		config.Logger.Warn("Failed to invalidate ranked applications cache",
			zap.String("propertyID", propertyID),
			zap.Error(err))
	}
}

func rankedCacheKey(propertyID string) string {
	return "applications:ranked:" + propertyID
}
