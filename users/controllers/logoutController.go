package controllers

import (
	"time"

	"forems-backend/config"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// LogoutController invalidates the refresh token and clears both cookies.
func (uc *UserController) LogoutController(c *fiber.Ctx) error {
	refreshToken := c.Cookies("refresh_token")
	if refreshToken != "" {
		if err := uc.RedisClient.Del(uc.Ctx, "refresh_token:"+refreshToken).Err(); err != nil {
			config.Logger.Warn("Failed to delete refresh token on logout", zap.Error(err))
		}
	}

	expired := time.Now().Add(-time.Hour)
	for _, name := range []string{"access_token", "refresh_token"} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			Expires:  expired,
			HTTPOnly: true,
			SameSite: "Lax",
			Path:     "/",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Logged out",
	})
}
