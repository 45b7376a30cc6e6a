package controllers

import (
	"time"

	"forems-backend/config"
	"forems-backend/users/repositories"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	accessTokenDuration  = 15 * time.Minute
	refreshTokenDuration = 7 * 24 * time.Hour
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginController authenticates a user and issues access and refresh
// tokens as HTTPOnly cookies. The refresh token is stored in Redis and is
// single use; the middleware rotates it.
func (uc *UserController) LoginController(c *fiber.Ctx) error {
	var request LoginRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request payload",
			"error":   err.Error(),
		})
	}

	user, err := uc.UserRepo.GetUserByEmail(request.Email)
	if err != nil || !repositories.CheckPasswordHash(request.Password, user.Password) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Invalid email or password",
		})
	}

	if !user.Active || user.IsSuspended {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "Account is disabled",
		})
	}

	accessToken, err := uc.PasetoMaker.CreateToken(user.ID, user.Email, string(user.Role), accessTokenDuration)
	if err != nil {
		config.Logger.Error("Could not generate access token", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Something went wrong",
		})
	}

	refreshToken, err := uc.PasetoMaker.CreateToken(user.ID, user.Email, string(user.Role), refreshTokenDuration)
	if err != nil {
		config.Logger.Error("Could not generate refresh token", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Something went wrong",
		})
	}

	if err := uc.RedisClient.Set(uc.Ctx, "refresh_token:"+refreshToken, user.ID.String(), refreshTokenDuration).Err(); err != nil {
		config.Logger.Error("Error storing refresh token in Redis", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Something went wrong",
		})
	}

	now := time.Now()
	user.LastLoginAt = &now
	if _, err := uc.UserRepo.UpdateUser(user); err != nil {
		config.Logger.Warn("Failed to record last login time",
			zap.String("userID", user.ID.String()),
			zap.Error(err))
	}

	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    accessToken,
		Expires:  time.Now().Add(accessTokenDuration),
		HTTPOnly: true,
		Secure:   false,
		SameSite: "Lax",
		Path:     "/",
	})

	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    refreshToken,
		Expires:  time.Now().Add(refreshTokenDuration),
		HTTPOnly: true,
		Secure:   false,
		SameSite: "Lax",
		Path:     "/",
	})

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Login successful",
		"data": fiber.Map{
			"id":         user.ID,
			"first_name": user.FirstName,
			"last_name":  user.LastName,
			"email":      user.Email,
			"role":       user.Role,
		},
	})
}
