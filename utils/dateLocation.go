package utils

import (
	"os"
	"time"
)

// DateLocation is the application's timezone
var DateLocation *time.Location

// InitializeDateLocation sets up the application's timezone
func InitializeDateLocation() error {
	timezone := os.Getenv("DB_TIMEZONE")
	if timezone == "" {
		timezone = "Africa/Lagos" // fallback default
	}

	var err error
	DateLocation, err = time.LoadLocation(timezone)
	return err
}

// NormalizeDate converts a time.Time to a normalized date at midnight in the application timezone
func NormalizeDate(t time.Time) time.Time {
	year, month, day := t.In(DateLocation).Date()
	return time.Date(year, month, day, 0, 0, 0, 0, DateLocation)
}
