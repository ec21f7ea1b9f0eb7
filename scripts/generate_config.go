package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Environment    string   `yaml:"environment"`
		Port           string   `yaml:"port"`
		AllowedOrigins []string `yaml:"allowed_origins"`
		Version        string   `yaml:"version"`
	} `yaml:"server"`

	Database struct {
		Host     string `yaml:"host"`
		Port     string `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
		SSLMode  string `yaml:"ssl_mode"`
	} `yaml:"database"`

	Redis struct {
		Address  string `yaml:"address"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	Weather struct {
		ForecastBaseURL    string `yaml:"forecast_base_url"`
		ArchiveBaseURL     string `yaml:"archive_base_url"`
		GeocodeBaseURL     string `yaml:"geocode_base_url"`
		NominatimURL       string `yaml:"nominatim_url"`
		TimeoutSeconds     int    `yaml:"timeout_seconds"`
		ForecastTTLMinutes int    `yaml:"forecast_ttl_minutes"`
		HistoryTTLMinutes  int    `yaml:"history_ttl_minutes"`
	} `yaml:"weather"`

	Model struct {
		ArtifactPath string `yaml:"artifact_path"`
	} `yaml:"model"`

	RateLimit struct {
		RequestsPerMinute int `yaml:"requests_per_minute"`
		WindowSeconds     int `yaml:"window_seconds"`
	} `yaml:"rate_limit"`
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func main() {
	config := Config{}

	// Server configuration
	config.Server.Environment = getEnvOrDefault("SERVER_ENVIRONMENT", "development")
	config.Server.Port = getEnvOrDefault("PORT", "8080")
	config.Server.AllowedOrigins = strings.Split(getEnvOrDefault("ALLOWED_ORIGINS", "*"), ",")
	config.Server.Version = getEnvOrDefault("VERSION", "dev")

	// Database configuration
	config.Database.Host = getEnvOrDefault("DB_HOST", "localhost")
	config.Database.Port = getEnvOrDefault("DB_PORT", "5432")
	config.Database.User = getEnvOrDefault("DB_USER", "postgres")
	config.Database.Password = getEnvOrDefault("DB_PASSWORD", "")
	config.Database.Name = getEnvOrDefault("DB_NAME", "rainparade_dev")
	config.Database.SSLMode = getEnvOrDefault("DB_SSL_MODE", "disable")

	// Redis configuration
	config.Redis.Address = getEnvOrDefault("REDIS_ADDRESS", "localhost:6379")
	config.Redis.Password = getEnvOrDefault("REDIS_PASSWORD", "")
	config.Redis.DB = getEnvIntOrDefault("REDIS_DB", 0)

	// Weather provider configuration
	config.Weather.ForecastBaseURL = getEnvOrDefault("WEATHER_FORECAST_BASE_URL", "https://api.open-meteo.com/v1/forecast")
	config.Weather.ArchiveBaseURL = getEnvOrDefault("WEATHER_ARCHIVE_BASE_URL", "https://archive-api.open-meteo.com/v1/archive")
	config.Weather.GeocodeBaseURL = getEnvOrDefault("WEATHER_GEOCODE_BASE_URL", "https://geocoding-api.open-meteo.com/v1/search")
	config.Weather.NominatimURL = getEnvOrDefault("WEATHER_NOMINATIM_URL", "https://nominatim.openstreetmap.org/search")
	config.Weather.TimeoutSeconds = getEnvIntOrDefault("WEATHER_TIMEOUT_SECONDS", 10)
	config.Weather.ForecastTTLMinutes = getEnvIntOrDefault("WEATHER_FORECAST_TTL_MINUTES", 60)
	config.Weather.HistoryTTLMinutes = getEnvIntOrDefault("WEATHER_HISTORY_TTL_MINUTES", 360)

	// Model configuration
	config.Model.ArtifactPath = getEnvOrDefault("MODEL_ARTIFACT_PATH", "daily_rain_classifier.json")

	// Rate limit configuration
	config.RateLimit.RequestsPerMinute = getEnvIntOrDefault("RATE_LIMIT_REQUESTS_PER_MINUTE", 100)
	config.RateLimit.WindowSeconds = getEnvIntOrDefault("RATE_LIMIT_WINDOW_SECONDS", 60)

	// Generate YAML
	data, err := yaml.Marshal(&config)
	if err != nil {
		fmt.Printf("Error generating config: %v\n", err)
		os.Exit(1)
	}

	outPath := getEnvOrDefault("CONFIG_OUTPUT", "config.yaml")
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		fmt.Printf("Error writing %s: %v\n", outPath, err)
		os.Exit(1)
	}

	fmt.Printf("Generated %s\n", outPath)
}
