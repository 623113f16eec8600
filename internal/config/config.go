package config

import (
	"os"
	"strconv"
)

// Config holds all configuration for our application
type Config struct {
	Port               string
	Environment        string
	SessionSecret      string
	SessionName        string
	SessionIdleMinutes int
	Database           DatabaseConfig
	Mongo              MongoConfig
	Logs               LogConfig
}

// DatabaseConfig holds the user database (SQLite) details
type DatabaseConfig struct {
	Path string
}

// MongoConfig holds the patient document store connection details
type MongoConfig struct {
	URI      string
	Database string
}

// LogConfig holds the rotating log file settings.
// Sizes are in megabytes; backups is the number of rotated files kept.
type LogConfig struct {
	Dir                string
	SecurityMaxSizeMB  int
	SecurityMaxBackups int
	AppMaxSizeMB       int
	AppMaxBackups      int
	AuthMaxSizeMB      int
	AuthMaxBackups     int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	dbConfig := DatabaseConfig{
		Path: getEnv("AUTH_DB_PATH", "hospital_auth.db"),
	}

	mongoConfig := MongoConfig{
		URI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		Database: getEnv("MONGO_DB_NAME", "stroke_records"),
	}

	sessionIdleMinutes, err := strconv.Atoi(getEnv("SESSION_IDLE_MINUTES", "30"))
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:               getEnv("PORT", "8080"),
		Environment:        getEnv("APP_ENV", "development"),
		SessionSecret:      getEnv("SESSION_SECRET", "dev-secret-key-change-in-production"),
		SessionName:        getEnv("SESSION_NAME", "hospital_session"),
		SessionIdleMinutes: sessionIdleMinutes,
		Database:           dbConfig,
		Mongo:              mongoConfig,
		Logs: LogConfig{
			Dir:                getEnv("LOG_DIR", "logs"),
			SecurityMaxSizeMB:  10,
			SecurityMaxBackups: 20,
			AppMaxSizeMB:       10,
			AppMaxBackups:      10,
			AuthMaxSizeMB:      5,
			AuthMaxBackups:     10,
		},
	}, nil
}

// Helper function to get environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
