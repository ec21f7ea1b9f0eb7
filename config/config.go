// Package config handles loading and validation of application configuration
// from environment variables and potentially configuration files.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/RainParade/rain-parade-backend/logger"
	"github.com/spf13/viper"
)

// Environment represents the application's running environment (development or production).
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"
)

// ServerConfig holds server-specific configuration.
type ServerConfig struct {
	Environment    Environment `mapstructure:"ENVIRONMENT" yaml:"environment"`
	Port           string      `mapstructure:"PORT" yaml:"port"`
	AllowedOrigins []string    `mapstructure:"ALLOWED_ORIGINS" yaml:"allowed_origins"`
	Version        string      `mapstructure:"VERSION" yaml:"version"`
	FrontendURL    string      `mapstructure:"FRONTEND_URL" yaml:"frontend_url"`
}

// DatabaseConfig holds PostgreSQL database connection details.
type DatabaseConfig struct {
	Host         string `mapstructure:"HOST" yaml:"host"`
	Port         int    `mapstructure:"PORT" yaml:"port"`
	User         string `mapstructure:"USER" yaml:"user"`
	Password     string `mapstructure:"PASSWORD" yaml:"password"`
	Name         string `mapstructure:"NAME" yaml:"name"`
	SSLMode      string `mapstructure:"SSL_MODE" yaml:"ssl_mode"`
	MaxOpenConns int    `mapstructure:"MAX_OPEN_CONNS" yaml:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"MAX_IDLE_CONNS" yaml:"max_idle_conns"`
	ConnMaxLife  string `mapstructure:"CONN_MAX_LIFE" yaml:"conn_max_life"`
}

// URL returns a postgres:// connection URL suitable for golang-migrate and
// other URL-based database tools.
func (c *DatabaseConfig) URL() string {
	sslmode := c.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(c.User),
		url.QueryEscape(c.Password),
		c.Host,
		c.Port,
		c.Name,
		sslmode,
	)
}

// RedisConfig holds Redis connection details.
type RedisConfig struct {
	Address      string `mapstructure:"ADDRESS" yaml:"address"`
	Password     string `mapstructure:"PASSWORD" yaml:"password"`
	DB           int    `mapstructure:"DB" yaml:"db"`
	UseTLS       bool   `mapstructure:"USE_TLS" yaml:"use_tls"`
	PoolSize     int    `mapstructure:"POOL_SIZE" yaml:"pool_size"`
	MinIdleConns int    `mapstructure:"MIN_IDLE_CONNS" yaml:"min_idle_conns"`
}

// WeatherConfig holds the upstream weather provider endpoints and the
// memoization windows applied to their responses.
type WeatherConfig struct {
	ForecastBaseURL string `mapstructure:"FORECAST_BASE_URL" yaml:"forecast_base_url"`
	ArchiveBaseURL  string `mapstructure:"ARCHIVE_BASE_URL" yaml:"archive_base_url"`
	GeocodeBaseURL  string `mapstructure:"GEOCODE_BASE_URL" yaml:"geocode_base_url"`
	NominatimURL    string `mapstructure:"NOMINATIM_URL" yaml:"nominatim_url"`
	TimeoutSeconds  int    `mapstructure:"TIMEOUT_SECONDS" yaml:"timeout_seconds"`
	// ForecastTTLMinutes is how long a forecast response stays valid (default 60).
	ForecastTTLMinutes int `mapstructure:"FORECAST_TTL_MINUTES" yaml:"forecast_ttl_minutes"`
	// HistoryTTLMinutes is how long a historical response stays valid (default 360).
	HistoryTTLMinutes int `mapstructure:"HISTORY_TTL_MINUTES" yaml:"history_ttl_minutes"`
}

// ForecastTTL returns the forecast memoization window as a duration.
func (c *WeatherConfig) ForecastTTL() time.Duration {
	return time.Duration(c.ForecastTTLMinutes) * time.Minute
}

// HistoryTTL returns the history memoization window as a duration.
func (c *WeatherConfig) HistoryTTL() time.Duration {
	return time.Duration(c.HistoryTTLMinutes) * time.Minute
}

// ModelConfig holds the location of the pre-trained rain classifier artifact.
type ModelConfig struct {
	ArtifactPath string `mapstructure:"ARTIFACT_PATH" yaml:"artifact_path"`
}

// RateLimitConfig holds configuration for rate limiting.
type RateLimitConfig struct {
	RequestsPerMinute int `mapstructure:"REQUESTS_PER_MINUTE" yaml:"requests_per_minute"`
	WindowSeconds     int `mapstructure:"WINDOW_SECONDS" yaml:"window_seconds"`
}

// Config aggregates all application configuration sections.
type Config struct {
	Server    ServerConfig    `mapstructure:"SERVER" yaml:"server"`
	Database  DatabaseConfig  `mapstructure:"DATABASE" yaml:"database"`
	Redis     RedisConfig     `mapstructure:"REDIS" yaml:"redis"`
	Weather   WeatherConfig   `mapstructure:"WEATHER" yaml:"weather"`
	Model     ModelConfig     `mapstructure:"MODEL" yaml:"model"`
	RateLimit RateLimitConfig `mapstructure:"RATE_LIMIT" yaml:"rate_limit"`
}

// IsDevelopment returns true if the application is running in development environment.
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == EnvDevelopment
}

// IsProduction returns true if the application is running in production environment.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == EnvProduction
}

// bindEnvVars binds multiple environment variables to config keys.
// Format: []{configKey, envVar}
func bindEnvVars(v *viper.Viper, bindings [][2]string) error {
	for _, b := range bindings {
		if err := v.BindEnv(b[0], b[1]); err != nil {
			return fmt.Errorf("failed to bind %s: %w", b[0], err)
		}
	}
	return nil
}

// LoadConfig loads configuration from environment variables using Viper,
// sets default values, binds environment variables to config struct fields,
// unmarshals the configuration, and validates it.
func LoadConfig() (*Config, error) {
	v := viper.New()
	log := logger.GetLogger()

	v.SetDefault("SERVER.ENVIRONMENT", EnvDevelopment)
	v.SetDefault("SERVER.PORT", "8080")
	v.SetDefault("SERVER.ALLOWED_ORIGINS", []string{"*"})
	v.SetDefault("SERVER.VERSION", "dev")
	v.SetDefault("DATABASE.HOST", "localhost")
	v.SetDefault("DATABASE.PORT", 5432)
	v.SetDefault("DATABASE.USER", "postgres")
	v.SetDefault("DATABASE.PASSWORD", "")
	v.SetDefault("DATABASE.NAME", "rainparade_dev")
	v.SetDefault("DATABASE.SSL_MODE", "disable")
	v.SetDefault("DATABASE.MAX_OPEN_CONNS", 5)
	v.SetDefault("DATABASE.MAX_IDLE_CONNS", 2)
	v.SetDefault("DATABASE.CONN_MAX_LIFE", "1h")
	v.SetDefault("REDIS.ADDRESS", "localhost:6379")
	v.SetDefault("REDIS.PASSWORD", "")
	v.SetDefault("REDIS.DB", 0)
	v.SetDefault("REDIS.USE_TLS", false)
	v.SetDefault("REDIS.POOL_SIZE", 3)
	v.SetDefault("REDIS.MIN_IDLE_CONNS", 1)
	v.SetDefault("WEATHER.FORECAST_BASE_URL", "https://api.open-meteo.com/v1/forecast")
	v.SetDefault("WEATHER.ARCHIVE_BASE_URL", "https://archive-api.open-meteo.com/v1/archive")
	v.SetDefault("WEATHER.GEOCODE_BASE_URL", "https://geocoding-api.open-meteo.com/v1/search")
	v.SetDefault("WEATHER.NOMINATIM_URL", "https://nominatim.openstreetmap.org/search")
	v.SetDefault("WEATHER.TIMEOUT_SECONDS", 10)
	v.SetDefault("WEATHER.FORECAST_TTL_MINUTES", 60)
	v.SetDefault("WEATHER.HISTORY_TTL_MINUTES", 360)
	v.SetDefault("MODEL.ARTIFACT_PATH", "daily_rain_classifier.json")
	v.SetDefault("RATE_LIMIT.REQUESTS_PER_MINUTE", 100)
	v.SetDefault("RATE_LIMIT.WINDOW_SECONDS", 60)
	v.SetDefault("LOG_LEVEL", "info")

	v.AutomaticEnv()
	// An env var explicitly set to "" must override the default, so the
	// validation guards below can reject it.
	v.AllowEmptyEnv(true)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Bind environment variables
	envBindings := [][2]string{
		// Server config
		{"SERVER.ENVIRONMENT", "SERVER_ENVIRONMENT"},
		{"SERVER.PORT", "PORT"},
		{"SERVER.ALLOWED_ORIGINS", "ALLOWED_ORIGINS"},
		{"SERVER.VERSION", "VERSION"},
		{"SERVER.FRONTEND_URL", "FRONTEND_URL"},
		// Database config
		{"DATABASE.HOST", "DB_HOST"},
		{"DATABASE.PORT", "DB_PORT"},
		{"DATABASE.USER", "DB_USER"},
		{"DATABASE.PASSWORD", "DB_PASSWORD"},
		{"DATABASE.NAME", "DB_NAME"},
		{"DATABASE.SSL_MODE", "DB_SSL_MODE"},
		// Redis config
		{"REDIS.ADDRESS", "REDIS_ADDRESS"},
		{"REDIS.PASSWORD", "REDIS_PASSWORD"},
		{"REDIS.DB", "REDIS_DB"},
		{"REDIS.USE_TLS", "REDIS_USE_TLS"},
		// Weather provider config
		{"WEATHER.FORECAST_BASE_URL", "WEATHER_FORECAST_BASE_URL"},
		{"WEATHER.ARCHIVE_BASE_URL", "WEATHER_ARCHIVE_BASE_URL"},
		{"WEATHER.GEOCODE_BASE_URL", "WEATHER_GEOCODE_BASE_URL"},
		{"WEATHER.NOMINATIM_URL", "WEATHER_NOMINATIM_URL"},
		{"WEATHER.TIMEOUT_SECONDS", "WEATHER_TIMEOUT_SECONDS"},
		{"WEATHER.FORECAST_TTL_MINUTES", "WEATHER_FORECAST_TTL_MINUTES"},
		{"WEATHER.HISTORY_TTL_MINUTES", "WEATHER_HISTORY_TTL_MINUTES"},
		// Model config
		{"MODEL.ARTIFACT_PATH", "MODEL_ARTIFACT_PATH"},
		// Rate limit config
		{"RATE_LIMIT.REQUESTS_PER_MINUTE", "RATE_LIMIT_REQUESTS_PER_MINUTE"},
		{"RATE_LIMIT.WINDOW_SECONDS", "RATE_LIMIT_WINDOW_SECONDS"},
	}

	if err := bindEnvVars(v, envBindings); err != nil {
		return nil, err
	}

	env := v.GetString("SERVER.ENVIRONMENT")
	log.Infow("Configuration loaded",
		"environment", env,
		"server_port", v.GetString("SERVER.PORT"),
		"db_host", v.GetString("DATABASE.HOST"),
		"forecast_base_url", v.GetString("WEATHER.FORECAST_BASE_URL"),
		"model_artifact_path", v.GetString("MODEL.ARTIFACT_PATH"),
	)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal failed: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	log.Info("Configuration validated successfully")
	return &cfg, nil
}

// validateConfig checks if the loaded configuration values are valid.
func validateConfig(cfg *Config) error {
	log := logger.GetLogger()

	// Validate Server Config
	if cfg.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if !containsWildcard(cfg.Server.AllowedOrigins) {
		for _, origin := range cfg.Server.AllowedOrigins {
			if _, err := url.ParseRequestURI(origin); err != nil {
				return fmt.Errorf("invalid allowed origin '%s': %w", origin, err)
			}
		}
	}

	// Validate Database Config
	if cfg.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if cfg.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if cfg.Database.Password == "" {
		log.Warn("Database password is not set. Ensure this is intended (e.g., using trusted auth).")
	}
	if cfg.Database.Name == "" {
		return fmt.Errorf("database name is required")
	}

	// Validate Redis Config
	if cfg.Redis.Address == "" {
		return fmt.Errorf("redis address is required")
	}
	if cfg.Redis.Password == "" && cfg.Redis.UseTLS {
		log.Warn("Redis password is not set, but TLS is enabled. Ensure this is correct for your Redis provider.")
	}

	// Validate Weather Config
	for name, raw := range map[string]string{
		"forecast base URL": cfg.Weather.ForecastBaseURL,
		"archive base URL":  cfg.Weather.ArchiveBaseURL,
		"geocode base URL":  cfg.Weather.GeocodeBaseURL,
		"nominatim URL":     cfg.Weather.NominatimURL,
	} {
		if raw == "" {
			return fmt.Errorf("weather %s is required", name)
		}
		if _, err := url.ParseRequestURI(raw); err != nil {
			return fmt.Errorf("invalid weather %s: %w", name, err)
		}
	}
	if cfg.Weather.TimeoutSeconds <= 0 {
		return fmt.Errorf("weather timeout must be positive")
	}
	if cfg.Weather.ForecastTTLMinutes <= 0 {
		return fmt.Errorf("forecast TTL must be positive")
	}
	if cfg.Weather.HistoryTTLMinutes <= 0 {
		return fmt.Errorf("history TTL must be positive")
	}

	// Validate Model Config. A missing file is handled at load time so the
	// server can still start degraded; an empty path is a config mistake.
	if cfg.Model.ArtifactPath == "" {
		return fmt.Errorf("model artifact path is required")
	}

	// Validate RateLimit Config
	if cfg.RateLimit.RequestsPerMinute <= 0 {
		return fmt.Errorf("rate limit requests per minute must be positive")
	}
	if cfg.RateLimit.WindowSeconds <= 0 {
		return fmt.Errorf("rate limit window seconds must be positive")
	}

	return nil
}

// containsWildcard checks if the list of allowed origins contains the wildcard "*".
func containsWildcard(origins []string) bool {
	for _, origin := range origins {
		if origin == "*" {
			return true
		}
	}
	return false
}
