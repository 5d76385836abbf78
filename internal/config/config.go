package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Env      string
	LogLevel string

	// File backend
	DataDir       string
	SchedulesPath string
	PatientsPath  string
	LockDir       string
	LockTimeout   time.Duration

	// Scheduling
	Timezone     string
	ScheduleDays int
	DayStartHour int
	DayEndHour   int

	// Redis backend (schedule store, locks, reminder queue)
	StorageBackend string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int

	// Reminder worker
	WorkerConcurrency int

	// SendGrid Email Configuration
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string

	// AWS SES Configuration
	AWSRegion    string
	SESFromEmail string
	SESFromName  string
}

// Load reads configuration from environment variables
func Load() *Config {
	dataDir := getEnv("DATA_DIR", "data")
	return &Config{
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DataDir:       dataDir,
		SchedulesPath: getEnv("SCHEDULES_PATH", filepath.Join(dataDir, "schedules.json")),
		PatientsPath:  getEnv("PATIENTS_PATH", filepath.Join(dataDir, "patients.csv")),
		LockDir:       getEnv("LOCK_DIR", dataDir),
		LockTimeout:   getEnvAsDuration("LOCK_TIMEOUT", 10*time.Second),

		Timezone:     getEnv("TIMEZONE", "Local"),
		ScheduleDays: getEnvAsInt("SCHEDULE_DAYS", 14),
		DayStartHour: getEnvAsInt("DAY_START_HOUR", 9),
		DayEndHour:   getEnvAsInt("DAY_END_HOUR", 17),

		StorageBackend: strings.ToLower(strings.TrimSpace(getEnv("STORAGE_BACKEND", "file"))),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisDB:        getEnvAsInt("REDIS_DB", 0),

		WorkerConcurrency: getEnvAsInt("WORKER_CONCURRENCY", 4),

		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "Clinic Scheduling"),

		AWSRegion:    getEnv("AWS_REGION", ""),
		SESFromEmail: getEnv("SES_FROM_EMAIL", ""),
		SESFromName:  getEnv("SES_FROM_NAME", "Clinic Scheduling"),
	}
}

// Location resolves the configured timezone, falling back to the system
// local zone when the name is unset or invalid.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "Local") {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
