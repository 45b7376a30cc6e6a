package controllers

import (
	"errors"

	"forems-backend/users/repositories"
	"forems-backend/utils"

	"github.com/gofiber/fiber/v2"
)

func (uc *UserController) RetrieveSingleUserController(c *fiber.Ctx) error {
	userID := utils.StringToUUIDPtr(c.Params("id"))
	if userID == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid user ID",
		})
	}

	user, err := uc.UserRepo.GetUserByID(*userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "User not found",
			})
		}
		if errors.Is(err, repositories.ErrUserDisabled) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "User account is disabled",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to fetch user",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "User fetched",
		"data":    user,
	})
}
