package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

func (uc *UserController) GetFilteredUsersController(c *fiber.Ctx) error {
	pageSize, err := strconv.Atoi(c.Query("page_size", "20"))
	if err != nil || pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page <= 0 {
		page = 1
	}
	offset := (page - 1) * pageSize

	filters := map[string]string{}
	for _, key := range []string{"role", "active", "start_date", "end_date"} {
		if value := c.Query(key); value != "" {
			filters[key] = value
		}
	}

	users, total, err := uc.UserRepo.GetFilteredUsers(pageSize, offset, filters)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to fetch users",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Users fetched",
		"data":    users,
		"meta": fiber.Map{
			"total":     total,
			"page":      page,
			"page_size": pageSize,
		},
	})
}
