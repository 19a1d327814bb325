package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ErrMissingLLMKey is returned by Validate when no LLM API key is configured
var ErrMissingLLMKey = errors.New("LLM API key not found, set LLM_API_KEY (or GEMINI_API_KEY / OPENAI_API_KEY)")

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Catalog    CatalogConfig
	PostgreSQL PostgreSQLConfig
	LLM        LLMConfig
	Maps       MapsConfig
	Session    SessionConfig
	Ranking    RankingConfig
	Schedule   ScheduleConfig
	Logging    LoggingConfig

	// Warnings lists environment values that failed to parse and fell back
	// to their defaults. They are logged once the logger is built.
	Warnings []string
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           int
	Host           string
	GinMode        string
	AllowedOrigins string
	AllowedMethods string
	AllowedHeaders string
}

// CatalogConfig describes where property records are loaded from
type CatalogConfig struct {
	Source string // "json" or "postgres"
	Path   string // JSON file path, also the target of Excel uploads
}

// PostgreSQLConfig holds PostgreSQL database configuration
type PostgreSQLConfig struct {
	DSN                string // full connection string, preferred when set
	Host               string
	Port               int
	User               string
	Password           string
	Database           string
	SSLMode            string
	MaxConnections     int
	MaxIdleConnections int
	TurnLogEnabled     bool
}

// LLMConfig holds the language model provider configuration
type LLMConfig struct {
	Provider    string // "gemini" or "openai"
	APIKey      string
	APIBase     string // OpenAI-compatible base URL
	Model       string
	Temperature float64
	TopP        float64
	MaxTokens   int
	Timeout     int // seconds
}

// MapsConfig holds the nearby-places API configuration
type MapsConfig struct {
	APIKey        string
	DefaultRadius int // meters
}

// SessionConfig controls the conversation session registry
type SessionConfig struct {
	TTL             time.Duration
	CleanupInterval time.Duration
	HistoryTurns    int // exchanges retained per session
	ContextTurns    int // exchanges included in the prompt memory
}

// RankingConfig holds scoring weights and result sizes
type RankingConfig struct {
	WeightLocation  int
	WeightBHK       int
	WeightBudget    int
	WeightAmenity   int
	WeightProximity int
	WeightText      int
	TopK            int
	SuggestionLimit int
}

// ScheduleConfig holds the appointment store configuration
type ScheduleConfig struct {
	Path string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
	File   string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	provider := strings.ToLower(getEnv("LLM_PROVIDER", "gemini"))
	env := &envReader{}

	cfg := &Config{
		Server: ServerConfig{
			Port:           env.getEnvAsInt("SERVER_PORT", 8000),
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			GinMode:        getEnv("GIN_MODE", "release"),
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			AllowedMethods: getEnv("CORS_ALLOWED_METHODS", "GET,POST,PUT,DELETE,OPTIONS"),
			AllowedHeaders: getEnv("CORS_ALLOWED_HEADERS", "Content-Type,Authorization"),
		},
		Catalog: CatalogConfig{
			Source: strings.ToLower(getEnv("CATALOG_SOURCE", "json")),
			Path:   getEnv("APARTMENT_DATA", "apartments.json"),
		},
		PostgreSQL: PostgreSQLConfig{
			DSN:                getEnv("DATABASE_URL", getEnv("PG_DSN", "")),
			Host:               getEnv("PG_HOST", "localhost"),
			Port:               env.getEnvAsInt("PG_PORT", 5432),
			User:               getEnv("PG_USER", "postgres"),
			Password:           getEnv("PG_PASSWORD", ""),
			Database:           getEnv("PG_DATABASE", "property_assistant"),
			SSLMode:            getEnv("PG_SSLMODE", "disable"),
			MaxConnections:     env.getEnvAsInt("PG_MAX_CONNECTIONS", 10),
			MaxIdleConnections: env.getEnvAsInt("PG_MAX_IDLE_CONNECTIONS", 2),
			TurnLogEnabled:     env.getEnvAsBool("TURN_LOG_ENABLED", false),
		},
		LLM: LLMConfig{
			Provider:    provider,
			APIKey:      getEnv("LLM_API_KEY", defaultLLMKey(provider)),
			APIBase:     getEnv("OPENAI_API_BASE", "https://api.openai.com/v1"),
			Model:       getEnv("LLM_MODEL", defaultLLMModel(provider)),
			Temperature: env.getEnvAsFloat("LLM_TEMPERATURE", 0.4),
			TopP:        env.getEnvAsFloat("LLM_TOP_P", 0.9),
			MaxTokens:   env.getEnvAsInt("LLM_MAX_TOKENS", 1024),
			Timeout:     env.getEnvAsInt("LLM_TIMEOUT", 30),
		},
		Maps: MapsConfig{
			APIKey:        getEnv("GOOGLE_MAPS_API_KEY", ""),
			DefaultRadius: env.getEnvAsInt("PLACES_DEFAULT_RADIUS", 2000),
		},
		Session: SessionConfig{
			TTL:             env.getEnvAsDuration("SESSION_TTL", time.Hour),
			CleanupInterval: env.getEnvAsDuration("SESSION_CLEANUP_INTERVAL", 10*time.Minute),
			HistoryTurns:    env.getEnvAsInt("HISTORY_MAX_TURNS", 4),
			ContextTurns:    env.getEnvAsInt("HISTORY_CONTEXT_TURNS", 3),
		},
		Ranking: RankingConfig{
			WeightLocation:  env.getEnvAsInt("RANK_WEIGHT_LOCATION", 10),
			WeightBHK:       env.getEnvAsInt("RANK_WEIGHT_BHK", 8),
			WeightBudget:    env.getEnvAsInt("RANK_WEIGHT_BUDGET", 6),
			WeightAmenity:   env.getEnvAsInt("RANK_WEIGHT_AMENITY", 3),
			WeightProximity: env.getEnvAsInt("RANK_WEIGHT_PROXIMITY", 12),
			WeightText:      env.getEnvAsInt("RANK_WEIGHT_TEXT", 1),
			TopK:            env.getEnvAsInt("RANK_TOP_K", 4),
			SuggestionLimit: env.getEnvAsInt("SUGGESTION_LIMIT", 3),
		},
		Schedule: ScheduleConfig{
			Path: getEnv("SCHEDULE_DATA", "schedules.json"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
			File:   getEnv("LOG_FILE", ""),
		},
	}
	cfg.Warnings = env.warnings

	return cfg, nil
}

// Validate reports configuration errors that must abort startup
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return ErrMissingLLMKey
	}
	switch c.LLM.Provider {
	case "gemini", "openai":
	default:
		return fmt.Errorf("unsupported LLM_PROVIDER %q, must be gemini or openai", c.LLM.Provider)
	}
	switch c.Catalog.Source {
	case "json", "postgres":
	default:
		return fmt.Errorf("unsupported CATALOG_SOURCE %q, must be json or postgres", c.Catalog.Source)
	}
	return nil
}

// UsesPostgres reports whether any component needs a database connection
func (c *Config) UsesPostgres() bool {
	return c.Catalog.Source == "postgres" || c.PostgreSQL.TurnLogEnabled
}

// GetPostgreSQLDSN returns PostgreSQL connection string
func (c *Config) GetPostgreSQLDSN() string {
	if c.PostgreSQL.DSN != "" {
		return c.PostgreSQL.DSN
	}

	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgreSQL.Host,
		c.PostgreSQL.Port,
		c.PostgreSQL.User,
		c.PostgreSQL.Password,
		c.PostgreSQL.Database,
		c.PostgreSQL.SSLMode,
	)
}

func defaultLLMKey(provider string) string {
	if provider == "openai" {
		return os.Getenv("OPENAI_API_KEY")
	}
	return os.Getenv("GEMINI_API_KEY")
}

func defaultLLMModel(provider string) string {
	if provider == "openai" {
		return "gpt-4o-mini"
	}
	return "gemini-2.0-flash"
}

// Helper functions

// envReader collects parse failures while reading typed values
type envReader struct {
	warnings []string
}

func (e *envReader) warn(format string, args ...any) {
	e.warnings = append(e.warnings, fmt.Sprintf(format, args...))
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func (e *envReader) getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		e.warn("Invalid integer value for %s, using default %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func (e *envReader) getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		e.warn("Invalid float value for %s, using default %f", key, defaultValue)
		return defaultValue
	}
	return value
}

func (e *envReader) getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		e.warn("Invalid bool value for %s, using default %t", key, defaultValue)
		return defaultValue
	}
	return value
}

func (e *envReader) getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		e.warn("Invalid duration value for %s, using default %s", key, defaultValue)
		return defaultValue
	}
	return value
}
