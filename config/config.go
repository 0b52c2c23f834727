package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"karnalix/database"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL  string
	DatabaseName string
	DBMaxConns   int32 // Connection pool ceiling, 0 keeps the driver default

	// NATS configuration
	NATSServers string // NATS server addresses (comma-separated)

	// Ledger configuration
	ReferralReward    int64 // Minor units credited to a referrer's bonus wallet, 0 disables
	CommissionRateBPS int64 // Agent commission on approved deposits, basis points, 0 disables

	// Account lock acquisition bound; operations fail Busy past it
	LockTimeout time.Duration

	// Environment
	Environment string // "development" or "production"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	// If instance is already set (e.g., by tests), return it
	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			// In test environment, use a default test config instead of panicking
			if os.Getenv("GO_TEST") == "1" || os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// GetDatabaseURL constructs the full database URL by combining base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		// Database
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),
		DBMaxConns:   16,

		// NATS
		NATSServers: getEnvWithDefault("NATS_SERVERS", "nats://nats:4222"),

		// Ledger defaults
		ReferralReward:    0,
		CommissionRateBPS: 0,
		LockTimeout:       2 * time.Second,

		// Environment
		Environment: os.Getenv("ENVIRONMENT"),
	}

	// Override defaults if environment variables are set
	if reward := os.Getenv("REFERRAL_REWARD"); reward != "" {
		if parsed, err := strconv.ParseInt(reward, 10, 64); err == nil {
			config.ReferralReward = parsed
		}
	}
	if rate := os.Getenv("COMMISSION_RATE_BPS"); rate != "" {
		if parsed, err := strconv.ParseInt(rate, 10, 64); err == nil {
			config.CommissionRateBPS = parsed
		}
	}
	if maxConns := os.Getenv("DB_MAX_CONNS"); maxConns != "" {
		if parsed, err := strconv.ParseInt(maxConns, 10, 32); err == nil && parsed > 0 {
			config.DBMaxConns = int32(parsed)
		}
	}
	if timeout := os.Getenv("LOCK_TIMEOUT_MS"); timeout != "" {
		if parsed, err := strconv.Atoi(timeout); err == nil && parsed > 0 {
			config.LockTimeout = time.Duration(parsed) * time.Millisecond
		}
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		// If DatabaseName is provided, ensure it's not empty
		if config.DatabaseName != "" && strings.TrimSpace(config.DatabaseName) == "" {
			return nil, fmt.Errorf("DATABASE_NAME cannot be empty when provided")
		}
	}

	if config.CommissionRateBPS < 0 || config.CommissionRateBPS > 10000 {
		return nil, fmt.Errorf("COMMISSION_RATE_BPS must be between 0 and 10000")
	}

	return config, nil
}

// getEnvWithDefault returns the environment variable value or a default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
// This should only be called from test files
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
// This should only be called from test files
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		Environment:       "test",
		DBMaxConns:        4,
		ReferralReward:    500,
		CommissionRateBPS: 0,
		LockTimeout:       2 * time.Second,
	}
}
