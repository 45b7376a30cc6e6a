package services

import (
	"regexp"
	"strings"

	"forems-backend/db/models"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateUser returns a human-readable validation error, or "" when the
// user payload is acceptable.
func ValidateUser(user *models.User) string {
	if strings.TrimSpace(user.FirstName) == "" {
		return "first_name is required"
	}
	if strings.TrimSpace(user.LastName) == "" {
		return "last_name is required"
	}
	if !emailPattern.MatchString(user.Email) {
		return "a valid email is required"
	}
	if len(user.Password) < 8 {
		return "password must be at least 8 characters"
	}

	switch user.Role {
	case models.LandlordRole, models.TenantRole, models.PropertyManagerRole, models.AgentRole:
	default:
		return "role must be one of landlord, tenant, property_manager, agent"
	}

	return ""
}
