package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort      string
	FirebaseProject string
	FirebaseAPIKey  string
	StorageBucket   string
	Environment     string

	// ServiceAccountJSON takes precedence over ServiceAccountPath when both are set.
	ServiceAccountJSON string
	ServiceAccountPath string

	StoreDriver         string // firestore or memory
	LaunchStatePath     string
	ProfileImageQuality int
	ReconcileInterval   time.Duration
}

func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		ServerPort:          getEnv("SERVER_PORT", "8080"),
		FirebaseProject:     getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseAPIKey:      getEnv("FIREBASE_API_KEY", ""),
		StorageBucket:       getEnv("STORAGE_BUCKET", ""),
		Environment:         getEnv("ENVIRONMENT", "development"),
		ServiceAccountJSON:  getEnv("FIREBASE_SERVICE_ACCOUNT_JSON", ""),
		ServiceAccountPath:  getEnv("FIREBASE_SERVICE_ACCOUNT_PATH", "./firebase-service-account.json"),
		StoreDriver:         getEnv("STORE_DRIVER", "firestore"),
		LaunchStatePath:     getEnv("LAUNCH_STATE_PATH", "./data/launch_state.json"),
		ProfileImageQuality: getEnvAsInt("PROFILE_IMAGE_QUALITY", 5),
		ReconcileInterval:   getEnvAsDuration("RECONCILE_INTERVAL", 10*time.Minute),
	}

	return config, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.Atoi(value)
		if err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		d, err := time.ParseDuration(value)
		if err == nil {
			return d
		}
	}
	return defaultValue
}
