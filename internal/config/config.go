package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environments recognised by APP_ENV.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Database drivers recognised by DB_DRIVER.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Anchor modes recognised by ANCHOR_MODE.
const (
	AnchorModeChain     = "chain"
	AnchorModeSimulated = "simulated"
)

// Config holds all configuration for the application.
type Config struct {
	Environment string
	APIPort     string
	LogLevel    slog.Level
	LogFormat   string

	LLMBaseURL   string
	LLMModelName string
	LLMAPIKey    string

	DBDriver    string
	DBPath      string
	DatabaseURL string

	PinataAPIKey     string
	PinataAPISecret  string
	PinataAPIURL     string
	PinataGatewayURL string

	// RecordEncryptionKey seals JSON payloads before pinning. Empty disables sealing.
	RecordEncryptionKey string

	AptosNetwork string
	AptosNodeURL string
	WalletURL    string
	AnchorMode   string

	// RequireAuth rejects record operations that carry no caller identity.
	RequireAuth bool
}

// IsProduction reports whether the service runs with production semantics
// (no simulated pinning fallback).
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// DSN returns the data source name for the configured driver.
func (c *Config) DSN() string {
	if c.DBDriver == DriverPostgres {
		return c.DatabaseURL
	}
	return c.DBPath
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates required fields.
// If a .env file exists in the current directory or project root, it will be loaded automatically.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	// Walk up to find a project-level .env
	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ { // Limit search depth
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break // Reached filesystem root
			}
			dir = parent
		}
	}

	cfg := &Config{
		Environment:         strings.ToLower(getEnv("APP_ENV", EnvDevelopment)),
		APIPort:             getEnv("API_PORT", "9000"),
		LogFormat:           strings.ToLower(getEnv("LOG_FORMAT", "text")),
		LLMBaseURL:          getEnv("LLM_BASE_URL", "http://localhost:8080"),
		LLMModelName:        getEnv("LLM_MODEL", "gemini-2.0-flash"),
		LLMAPIKey:           getEnv("LLM_API_KEY", "dummy-key"),
		DBDriver:            strings.ToLower(getEnv("DB_DRIVER", DriverSQLite)),
		DBPath:              getEnv("DB_PATH", "./data/medguard-ai.db"),
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		PinataAPIKey:        getEnv("PINATA_API_KEY", ""),
		PinataAPISecret:     getEnv("PINATA_API_SECRET", ""),
		PinataAPIURL:        getEnv("PINATA_API_URL", "https://api.pinata.cloud"),
		PinataGatewayURL:    getEnv("PINATA_GATEWAY_URL", "https://gateway.pinata.cloud/ipfs"),
		RecordEncryptionKey: getEnv("RECORD_ENCRYPTION_KEY", ""),
		AptosNetwork:        strings.ToLower(getEnv("APTOS_NETWORK", "devnet")),
		AptosNodeURL:        getEnv("APTOS_NODE_URL", ""),
		WalletURL:           getEnv("WALLET_URL", ""),
		AnchorMode:          strings.ToLower(getEnv("ANCHOR_MODE", AnchorModeChain)),
	}

	level, err := parseLogLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	requireAuth, err := strconv.ParseBool(getEnv("REQUIRE_AUTH", "false"))
	if err != nil {
		return nil, fmt.Errorf("REQUIRE_AUTH must be a boolean: %w", err)
	}
	cfg.RequireAuth = requireAuth

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if cfg.DBDriver == DriverSQLite {
		// Create the data directory for the SQLite file
		dataDir := filepath.Dir(cfg.DBPath)
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Environment {
	case EnvDevelopment, EnvProduction:
	default:
		return fmt.Errorf("APP_ENV must be %q or %q, got %q", EnvDevelopment, EnvProduction, c.Environment)
	}

	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}

	switch c.DBDriver {
	case DriverSQLite:
		if c.DBPath == "" {
			return fmt.Errorf("DB_PATH is required for the %s driver", DriverSQLite)
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the %s driver", DriverPostgres)
		}
	default:
		return fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverSQLite, DriverPostgres, c.DBDriver)
	}

	switch c.AptosNetwork {
	case "devnet", "testnet", "mainnet":
	default:
		return fmt.Errorf("APTOS_NETWORK must be devnet, testnet or mainnet, got %q", c.AptosNetwork)
	}

	switch c.AnchorMode {
	case AnchorModeChain, AnchorModeSimulated:
	default:
		return fmt.Errorf("ANCHOR_MODE must be %q or %q, got %q", AnchorModeChain, AnchorModeSimulated, c.AnchorMode)
	}

	// Pinning credentials come as a pair
	if (c.PinataAPIKey == "") != (c.PinataAPISecret == "") {
		return fmt.Errorf("PINATA_API_KEY and PINATA_API_SECRET must be set together")
	}

	return nil
}

func parseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("LOG_LEVEL must be debug, info, warn or error: %w", err)
	}
	return level, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
