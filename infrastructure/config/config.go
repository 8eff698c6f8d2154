package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string
	Environment   string

	// AWS configuration
	AWSRegion     string
	DynamoDBTable string
	IndexName     string // GSI1 - entity listings by type
	GSI2IndexName string // GSI2 - parent-scoped lookups (tickets by pre-hire, notes by event)
	EventBusName  string

	// Lambda configuration
	IsLambda           bool
	LambdaFunctionName string

	// WebSocket configuration
	WebSocketEndpoint string
	ConnectionsTable  string

	// Bundle catalog
	CatalogPath string

	// Logging
	LogLevel string

	// Authentication
	JWTSecret   string
	JWTIssuer   string
	JWTAudience string

	// Rate limiting
	RateLimitPerMinute int

	// Feature flags
	EnableMetrics          bool
	EnableTracing          bool
	EnableCORS             bool
	EnableAutoProvisioning bool
}

// LoadConfig loads configuration from the environment. A .env file in the
// working directory is applied first when present, without overriding
// variables already set.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		AWSRegion:     getEnv("AWS_REGION", "us-west-2"),
		DynamoDBTable: getEnv("TABLE_NAME", "onboardhq"),
		IndexName:     getEnv("INDEX_NAME", "EntityIndex"),
		GSI2IndexName: getEnv("GSI2_INDEX_NAME", "ParentIndex"),
		EventBusName:  getEnv("EVENT_BUS_NAME", "onboardhq-events"),

		// Lambda configuration
		IsLambda:           getEnvBool("IS_LAMBDA", false),
		LambdaFunctionName: getEnv("AWS_LAMBDA_FUNCTION_NAME", ""),

		// WebSocket configuration
		WebSocketEndpoint: getEnv("WEBSOCKET_ENDPOINT", ""),
		ConnectionsTable:  getEnv("CONNECTIONS_TABLE", "onboardhq-connections"),

		// Bundle catalog
		CatalogPath: getEnv("CATALOG_PATH", "catalog/bundles.yaml"),

		// Authentication
		JWTSecret:   getEnv("JWT_SECRET", ""),
		JWTIssuer:   getEnv("JWT_ISSUER", "onboardhq"),
		JWTAudience: getEnv("JWT_AUDIENCE", ""),

		// Rate limiting
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 120),

		// Logging and features
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		EnableMetrics:          getEnvBool("ENABLE_METRICS", false),
		EnableTracing:          getEnvBool("ENABLE_TRACING", false),
		EnableCORS:             getEnvBool("ENABLE_CORS", true),
		EnableAutoProvisioning: getEnvBool("ENABLE_AUTO_PROVISIONING", true),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.Environment == "production" {
		if c.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required in production")
		}
		if c.DynamoDBTable == "" {
			return fmt.Errorf("TABLE_NAME is required")
		}
		if c.EventBusName == "" {
			return fmt.Errorf("EVENT_BUS_NAME is required")
		}
	}

	if c.RateLimitPerMinute < 1 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}

	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
