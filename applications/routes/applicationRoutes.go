package routes

import (
	controllers "forems-backend/applications/controllers"
	"forems-backend/applications/repositories"
	indexing_repository "forems-backend/bleve/repositories"
	"forems-backend/middleware"
	property_repositories "forems-backend/properties/repositories"
	user_repositories "forems-backend/users/repositories"
	"forems-backend/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func ApplicationInitRoutes(
	app *fiber.App,
	appCtx *middleware.AppContext,
	applicationRepo repositories.ApplicationRepository,
	propertyRepo property_repositories.PropertyRepository,
	userRepo user_repositories.UserRepository,
	bleveRepo indexing_repository.BleveRepositoryInterface,
	hub *websocket.Hub,
	redisClient *redis.Client,
	db *gorm.DB,
) {
	applicationController := &controllers.ApplicationController{
		ApplicationRepo: applicationRepo,
		PropertyRepo:    propertyRepo,
		UserRepo:        userRepo,
		DB:              db,
		RedisClient:     redisClient,
		BleveRepo:       bleveRepo,
		Hub:             hub,
	}

	api := app.Group("/api/v1")

	api.Post("/applications", middleware.ProtectedRoute(appCtx), applicationController.CreateApplicationController)
	api.Get("/applications/export", middleware.ProtectedRoute(appCtx), applicationController.ExportApplicationsController)
	api.Post("/applications/:id/approve", middleware.ProtectedRoute(appCtx), applicationController.ApproveApplicationController)
	api.Post("/applications/:id/reject", middleware.ProtectedRoute(appCtx), applicationController.RejectApplicationController)
	api.Get("/properties/:id/applications", middleware.ProtectedRoute(appCtx), applicationController.GetPropertyApplicationsController)
	api.Get("/tenants/:id/applications", middleware.ProtectedRoute(appCtx), applicationController.GetTenantApplicationsController)
}
