package controllers

import (
	"context"

	"forems-backend/config"
	"forems-backend/db/models"
	"forems-backend/token"
	"forems-backend/users/repositories"
	"forems-backend/users/services"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type UserController struct {
	UserRepo    repositories.UserRepository
	PasetoMaker token.Maker
	RedisClient *redis.Client
	Ctx         context.Context
}

type CreateUserRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	CreatedBy string `json:"created_by"`
}

func (uc *UserController) CreateUserController(c *fiber.Ctx) error {
	var request CreateUserRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request payload",
			"error":   err.Error(),
		})
	}

	user := models.User{
		FirstName: request.FirstName,
		LastName:  request.LastName,
		Email:     request.Email,
		Phone:     request.Phone,
		Password:  request.Password,
		Role:      models.Role(request.Role),
		Active:    true,
		CreatedBy: request.CreatedBy,
	}

	if validationError := services.ValidateUser(&user); validationError != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   validationError,
		})
	}

	created, err := uc.UserRepo.CreateUser(&user)
	if err != nil {
		config.Logger.Error("Failed to create user", zap.Error(err), zap.String("email", request.Email))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Something went wrong while creating the user",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User successfully created",
		"data":    created,
	})
}
