package controllers

import (
	"context"
	"encoding/json"
	"time"

	"forems-backend/applications/services"
	"forems-backend/config"
	"forems-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const rankedCacheTTL = 5 * time.Minute

// GetPropertyApplicationsController returns a property's applications
// scored and ranked, cached in Redis until the next write invalidates it.
func (ac *ApplicationController) GetPropertyApplicationsController(c *fiber.Ctx) error {
	propertyID := utils.StringToUUIDPtr(c.Params("id"))
	if propertyID == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid property ID",
		})
	}

	cacheKey := rankedCacheKey(propertyID.String())
	if ac.RedisClient != nil {
		cached, err := ac.RedisClient.Get(context.Background(), cacheKey).Result()
		if err == nil {
			var ranked []services.RankedApplication
			if err := json.Unmarshal([]byte(cached), &ranked); err == nil {
				return c.Status(fiber.StatusOK).JSON(fiber.Map{
					"message": "Applications fetched",
					"data":    ranked,
					"cached":  true,
				})
			}
		} else if err != redis.Nil {
			config.Logger.Warn("Ranked applications cache read failed",
				zap.String("propertyID", propertyID.String()),
				zap.Error(err))
		}
	}

	applications, err := ac.ApplicationRepo.GetApplicationsByProperty(*propertyID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to fetch applications",
			"error":   err.Error(),
		})
	}

	ranked := services.RankApplications(applications)

	if ac.RedisClient != nil {
		if payload, err := json.Marshal(ranked); err == nil {
			if err := ac.RedisClient.Set(context.Background(), cacheKey, payload, rankedCacheTTL).Err(); err != nil {
				config.Logger.Warn("Ranked applications cache write failed",
					zap.String("propertyID", propertyID.String()),
					zap.Error(err))
			}
		}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Applications fetched",
		"data":    ranked,
	})
}

// GetTenantApplicationsController lists a tenant's own applications in
// submission order, without scores.
func (ac *ApplicationController) GetTenantApplicationsController(c *fiber.Ctx) error {
	tenantID := utils.StringToUUIDPtr(c.Params("id"))
	if tenantID == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid tenant ID",
		})
	}

	applications, err := ac.ApplicationRepo.GetApplicationsByTenant(*tenantID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to fetch applications",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Applications fetched",
		"data":    applications,
	})
}
