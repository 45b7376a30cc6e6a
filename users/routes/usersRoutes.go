package routes

import (
	"forems-backend/middleware"
	controllers "forems-backend/users/controllers"
	"forems-backend/users/repositories"

	"github.com/gofiber/fiber/v2"
)

func UserInitRoutes(
	app *fiber.App,
	appCtx *middleware.AppContext,
	userRepo repositories.UserRepository,
) {
	userController := &controllers.UserController{
		UserRepo:    userRepo,
		PasetoMaker: appCtx.PasetoMaker,
		RedisClient: appCtx.RedisClient,
		Ctx:         appCtx.Ctx,
	}

	api := app.Group("/api/v1")

	api.Post("/users", userController.CreateUserController)
	api.Post("/users/login", userController.LoginController)
	api.Post("/users/logout", userController.LogoutController)
	api.Get("/users/filtered", middleware.ProtectedRoute(appCtx), userController.GetFilteredUsersController)
	api.Get("/users/:id", middleware.ProtectedRoute(appCtx), userController.RetrieveSingleUserController)
}
