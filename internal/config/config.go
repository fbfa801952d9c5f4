package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"homework-desk/internal/core/domain"
	"homework-desk/internal/pkg/logger"
	"homework-desk/internal/pkg/password"
)

// Config holds all configuration for the application
type Config struct {
	AppMode         string
	Port            string
	LogLevel        string
	SentryDSN       string
	Version         string
	Database        DatabaseConfig
	JWT             JWTConfig
	Cookie          CookieConfig
	Chat            ChatConfig
	Jobs            JobsConfig
	OwnerInitialPin string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// JWTConfig holds access token configuration
type JWTConfig struct {
	Secret          string
	AccessTokenMins int
}

// CookieConfig holds cookie configuration
type CookieConfig struct {
	Secure   bool
	SameSite string
	Domain   string
}

// ChatConfig holds chat attachment limits
type ChatConfig struct {
	MaxFileBytes int
}

// JobsConfig holds cron schedules
type JobsConfig struct {
	BalanceResync  string
	PendingMetrics string
}

// DefaultMaxFileBytes caps a chat attachment at 5 MiB
const DefaultMaxFileBytes = 5 << 20

// Global config instance
var AppConfig *Config

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		logger.Log.Warn().Msg("⚠️ .env file not found, using environment variables")
	}

	// Get APP_MODE (default to "dev") - trim spaces for Windows compatibility
	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	config := &Config{
		AppMode:         appMode,
		Port:            getEnv("PORT", "3000"),
		LogLevel:        getEnv("LOG_LEVEL", defaultLogLevel(appMode)),
		SentryDSN:       getEnv("SENTRY_DSN", ""),
		Version:         getEnv("APP_VERSION", "dev"),
		Database:        loadDatabaseConfig(appMode),
		JWT:             loadJWTConfig(appMode),
		Cookie:          loadCookieConfig(appMode),
		Chat:            loadChatConfig(),
		Jobs:            loadJobsConfig(),
		OwnerInitialPin: getEnv("OWNER_INITIAL_PIN", ""),
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	// Set global config
	AppConfig = config

	logger.Log.Info().Str("mode", appMode).Msg("✅ Configuration loaded successfully")
	return config, nil
}

func defaultLogLevel(mode string) string {
	if mode == "prod" {
		return "info"
	}
	return "debug"
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(mode string) DatabaseConfig {
	prefix := modePrefix(mode)

	return DatabaseConfig{
		Host:     getEnv(prefix+"DB_HOST", "localhost"),
		Port:     getEnv(prefix+"DB_PORT", "3306"),
		User:     getEnv(prefix+"DB_USER", "root"),
		Password: getEnv(prefix+"DB_PASS", ""),
		DBName:   getEnv(prefix+"DB_NAME", "homework_desk"),
	}
}

// loadJWTConfig loads JWT config based on mode
func loadJWTConfig(mode string) JWTConfig {
	prefix := modePrefix(mode)

	accessMins, _ := strconv.Atoi(getEnv("ACCESS_TOKEN_MINUTES", "10080"))

	return JWTConfig{
		Secret:          getEnv(prefix+"JWT_SECRET", "default_secret"),
		AccessTokenMins: accessMins,
	}
}

// loadCookieConfig loads cookie config based on mode
func loadCookieConfig(mode string) CookieConfig {
	prefix := modePrefix(mode)

	secure, _ := strconv.ParseBool(getEnv(prefix+"COOKIE_SECURE", "false"))

	return CookieConfig{
		Secure:   secure,
		SameSite: getEnv("COOKIE_SAMESITE", "lax"),
		Domain:   getEnv("COOKIE_DOMAIN", ""),
	}
}

func loadChatConfig() ChatConfig {
	maxBytes, err := strconv.Atoi(getEnv("CHAT_MAX_FILE_BYTES", ""))
	if err != nil {
		maxBytes = DefaultMaxFileBytes
	}
	return ChatConfig{MaxFileBytes: maxBytes}
}

func loadJobsConfig() JobsConfig {
	return JobsConfig{
		BalanceResync:  getEnv("BALANCE_RESYNC_SCHEDULE", "@every 1h"),
		PendingMetrics: getEnv("PENDING_METRICS_SCHEDULE", "@every 1m"),
	}
}

func modePrefix(mode string) string {
	if mode == "prod" {
		return "PROD_"
	}
	return "DEV_"
}

// validate collects every configuration problem
func (c *Config) validate() error {
	var errs []error

	if c.IsProd() && c.JWT.Secret == "default_secret" {
		errs = append(errs, errors.New("PROD_JWT_SECRET must be set in prod mode"))
	}
	if c.JWT.AccessTokenMins <= 0 {
		errs = append(errs, errors.New("ACCESS_TOKEN_MINUTES must be a positive integer"))
	}
	if c.Chat.MaxFileBytes <= 0 {
		errs = append(errs, errors.New("CHAT_MAX_FILE_BYTES must be positive"))
	}
	for name, spec := range map[string]string{
		"BALANCE_RESYNC_SCHEDULE":  c.Jobs.BalanceResync,
		"PENDING_METRICS_SCHEDULE": c.Jobs.PendingMetrics,
	} {
		if _, err := cron.ParseStandard(spec); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	if c.OwnerInitialPin != "" && !password.IsPin(c.OwnerInitialPin, domain.LoginPinLength) {
		errs = append(errs, fmt.Errorf("OWNER_INITIAL_PIN must be %d digits", domain.LoginPinLength))
	}

	return errors.Join(errs...)
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		return "https://homework-desk.app"
	}
	return origins
}
