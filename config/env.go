package config

import "os"

// GetEnv reads an environment variable; empty string when unset.
// Loading of the .env file happens once in main via godotenv.
func GetEnv(key string) string {
	return os.Getenv(key)
}

// GetEnvOrDefault reads an environment variable with a fallback value.
func GetEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
