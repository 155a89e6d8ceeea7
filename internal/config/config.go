package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/i474232898/weather-lookup/internal/logging"
)

type AppConfig struct {
	WeatherAPIKey     string `validate:"required"`
	WeatherAPIBaseURL string `validate:"omitempty,url"`

	// HTTPTimeout bounds a single outbound request; QueryTimeout bounds a whole
	// query, retries included. Zero disables either.
	HTTPTimeout  time.Duration `validate:"gte=0"`
	QueryTimeout time.Duration `validate:"gte=0"`

	ForecastDays          int     `validate:"min=1,max=3"`
	ProviderMaxRetries    int     `validate:"gte=0,lte=10"`
	ProviderRatePerSecond float64 `validate:"gte=0"`

	StoreBackend string `validate:"oneof=memory sqlite redis"`
	SQLitePath   string `validate:"required_if=StoreBackend sqlite"`
	RedisURL     string `validate:"required_if=StoreBackend redis"`

	// RefreshInterval re-runs the most recent query periodically (0 = off).
	RefreshInterval time.Duration `validate:"gte=0"`

	ThemeDark bool
	Port      string `validate:"required,numeric"`
	LogLevel  string `validate:"oneof=debug info warn error"`
}

var validate = validator.New()

// Load reads an optional .env file and then the environment.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		logging.Debug("no .env file loaded", "error", err)
	}
	return FromEnv()
}

// FromEnv reads configuration from the environment with sensible defaults and
// validates it.
func FromEnv() (*AppConfig, error) {
	cfg := &AppConfig{
		WeatherAPIKey:     os.Getenv("WEATHERAPI_API_KEY"),
		WeatherAPIBaseURL: os.Getenv("WEATHERAPI_BASE_URL"),
		StoreBackend:      strings.ToLower(getenvDefault("STORE_BACKEND", "memory")),
		SQLitePath:        getenvDefault("SQLITE_PATH", "data/weather-lookup.db"),
		RedisURL:          os.Getenv("REDIS_URL"),
		Port:              getenvDefault("PORT", "8080"),
		LogLevel:          strings.ToLower(getenvDefault("LOG_LEVEL", "info")),
	}

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.QueryTimeout, err = getenvDuration("QUERY_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.RefreshInterval, err = getenvDuration("REFRESH_INTERVAL", 0); err != nil {
		return nil, err
	}

	cfg.ForecastDays = getenvInt("FORECAST_DAYS", 3)
	cfg.ProviderMaxRetries = getenvInt("PROVIDER_MAX_RETRIES", 3)
	cfg.ProviderRatePerSecond = getenvFloat("PROVIDER_RATE_PER_SECOND", 0)
	cfg.ThemeDark = getenvBool("THEME_DARK", false)

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
