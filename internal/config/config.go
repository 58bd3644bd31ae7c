package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration values
type Config struct {
	// Server configuration
	Port        int    `json:"port"`
	Environment string `json:"environment"`

	// MongoDB configuration
	MongoURI      string `json:"mongo_uri"`
	MongoDatabase string `json:"mongo_database"`

	// Redis configuration
	RedisURI      string        `json:"redis_uri"`
	RedisPassword string        `json:"redis_password"`
	RedisDB       int           `json:"redis_db"`
	RedisTTL      time.Duration `json:"redis_ttl"`

	// Collection names
	ProfileCollection string `json:"mongo_profile_collection"`

	// Taxisnet retrieval provider configuration
	TaxisnetBaseURL string        `json:"taxisnet_base_url"`
	TaxisnetTimeout time.Duration `json:"taxisnet_timeout"`

	// Acquisition flow configuration
	FlowTTL time.Duration `json:"flow_ttl"`

	// Tracing configuration
	TracingEnabled  bool   `json:"tracing_enabled"`
	TracingEndpoint string `json:"tracing_endpoint"`
}

var (
	AppConfig *Config
)

// LoadConfig loads configuration from environment variables
func LoadConfig() error {
	port, err := strconv.Atoi(getEnvOrDefault("PORT", "8080"))
	if err != nil {
		return fmt.Errorf("invalid PORT: %w", err)
	}

	redisDB, err := strconv.Atoi(getEnvOrDefault("REDIS_DB", "0"))
	if err != nil {
		return fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	redisTTL, err := time.ParseDuration(getEnvOrDefault("REDIS_TTL", "60m"))
	if err != nil {
		return fmt.Errorf("invalid REDIS_TTL: %w", err)
	}

	taxisnetTimeout, err := time.ParseDuration(getEnvOrDefault("TAXISNET_TIMEOUT", "30s"))
	if err != nil {
		return fmt.Errorf("invalid TAXISNET_TIMEOUT: %w", err)
	}

	flowTTL, err := time.ParseDuration(getEnvOrDefault("FLOW_TTL", "30m"))
	if err != nil {
		return fmt.Errorf("invalid FLOW_TTL: %w", err)
	}

	// The retrieval provider endpoint cannot be guessed
	taxisnetBaseURL := os.Getenv("TAXISNET_BASE_URL")
	if taxisnetBaseURL == "" {
		return fmt.Errorf("TAXISNET_BASE_URL environment variable is required")
	}

	AppConfig = &Config{
		// Server configuration
		Port:        port,
		Environment: getEnvOrDefault("ENVIRONMENT", "development"),

		// MongoDB configuration
		MongoURI:      getEnvOrDefault("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnvOrDefault("MONGODB_DATABASE", "profile"),

		// Redis configuration
		RedisURI:      getEnvOrDefault("REDIS_URI", "localhost:6379"),
		RedisPassword: getEnvOrDefault("REDIS_PASSWORD", ""),
		RedisDB:       redisDB,
		RedisTTL:      redisTTL,

		// Collection names
		ProfileCollection: getEnvOrDefault("MONGODB_PROFILE_COLLECTION", "profiles"),

		// Taxisnet retrieval provider
		TaxisnetBaseURL: taxisnetBaseURL,
		TaxisnetTimeout: taxisnetTimeout,

		// Acquisition flow
		FlowTTL: flowTTL,

		// Tracing
		TracingEnabled:  getEnvOrDefault("TRACING_ENABLED", "false") == "true",
		TracingEndpoint: getEnvOrDefault("TRACING_ENDPOINT", "localhost:4317"),
	}

	return nil
}

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
