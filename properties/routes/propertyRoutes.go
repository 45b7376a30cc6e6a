package routes

import (
	"forems-backend/middleware"
	controllers "forems-backend/properties/controllers"
	"forems-backend/properties/repositories"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func PropertyInitRoutes(
	app *fiber.App,
	appCtx *middleware.AppContext,
	propertyRepo repositories.PropertyRepository,
	db *gorm.DB,
) {
	propertyController := &controllers.PropertyController{
		PropertyRepo: propertyRepo,
		DB:           db,
	}

	api := app.Group("/api/v1")

	api.Post("/properties", middleware.ProtectedRoute(appCtx), propertyController.CreatePropertyController)
	api.Get("/properties", propertyController.GetAvailablePropertiesController)
	api.Get("/properties/:id", propertyController.GetPropertyController)
}
