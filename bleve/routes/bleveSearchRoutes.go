package routes

import (
	"forems-backend/bleve/controllers"
	"forems-backend/middleware"

	"github.com/gofiber/fiber/v2"
)

func InitBleveRoutes(app *fiber.App, appCtx *middleware.AppContext, controller *controllers.SearchController) {
	api := app.Group("/api/v1/search")

	api.Get("/applications", middleware.ProtectedRoute(appCtx), controller.SearchApplicationsController)
}
