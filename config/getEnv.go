package config

import "os"

// GetEnv reads an environment variable; godotenv is loaded once in main
// before any call gets here.
func GetEnv(key string) string {
	return os.Getenv(key)
}
