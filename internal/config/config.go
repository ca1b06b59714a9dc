package config

import (
	"net/url"
	"os"
	"strconv"
	"time"

	"featurecard/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server     ServerConfig
	FeatureAPI FeatureAPIConfig
	Data       DataConfig
	Database   DatabaseConfig
	Cache      CacheConfig
	Render     RenderConfig
	LogLevel   string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// FeatureAPIConfig points clients at the feature service
type FeatureAPIConfig struct {
	URL     string
	Timeout time.Duration
}

// DataConfig locates data files and the stacking target
type DataConfig struct {
	MediaRoot    string
	TargetColumn string
}

// DatabaseConfig holds the optional data-file registry connection
type DatabaseConfig struct {
	URL string
}

// Enabled reports whether a database is configured.
func (c DatabaseConfig) Enabled() bool { return c.URL != "" }

// CacheConfig holds the optional feature-info cache settings
type CacheConfig struct {
	RedisURL string
	TTL      time.Duration
}

// Enabled reports whether a cache is configured.
func (c CacheConfig) Enabled() bool { return c.RedisURL != "" }

// RenderConfig controls chart output
type RenderConfig struct {
	OutputDir      string
	ViewportWidth  int
	ViewportHeight int
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:   *loadServerConfig(),
		Data:     *loadDataConfig(),
		Database: DatabaseConfig{URL: os.Getenv("DATABASE_URL")},
		Cache:    *loadCacheConfig(),
		Render:   *loadRenderConfig(),
		LogLevel: getEnvOrDefault("LOG_LEVEL", "INFO"),
	}
	config.FeatureAPI = *loadFeatureAPIConfig(config.Server.Port)

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "debug"),
	}
}

func loadFeatureAPIConfig(port string) *FeatureAPIConfig {
	return &FeatureAPIConfig{
		URL:     getEnvOrDefault("FEATURE_API_URL", "http://localhost:"+port),
		Timeout: getEnvDurationOrDefault("FEATURE_API_TIMEOUT", 30*time.Second),
	}
}

func loadDataConfig() *DataConfig {
	return &DataConfig{
		MediaRoot:    getEnvOrDefault("MEDIA_ROOT", "./media"),
		TargetColumn: getEnvOrDefault("TARGET_COLUMN", "target"),
	}
}

func loadCacheConfig() *CacheConfig {
	return &CacheConfig{
		RedisURL: os.Getenv("REDIS_URL"),
		TTL:      getEnvDurationOrDefault("FEATURE_CACHE_TTL", 10*time.Minute),
	}
}

func loadRenderConfig() *RenderConfig {
	return &RenderConfig{
		OutputDir:      getEnvOrDefault("RENDER_OUTPUT_DIR", ""),
		ViewportWidth:  getEnvIntOrDefault("VIEWPORT_WIDTH", 1280),
		ViewportHeight: getEnvIntOrDefault("VIEWPORT_HEIGHT", 800),
	}
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT is required")
	}
	if u, err := url.Parse(config.FeatureAPI.URL); err != nil || u.Scheme == "" || u.Host == "" {
		return errors.ConfigInvalid("FEATURE_API_URL must be an absolute URL")
	}
	if config.FeatureAPI.Timeout <= 0 {
		return errors.ConfigInvalid("FEATURE_API_TIMEOUT must be positive")
	}
	if config.Data.MediaRoot == "" {
		return errors.ConfigInvalid("MEDIA_ROOT is required")
	}
	if config.Data.TargetColumn == "" {
		return errors.ConfigInvalid("TARGET_COLUMN is required")
	}
	if config.Cache.Enabled() && config.Cache.TTL <= 0 {
		return errors.ConfigInvalid("FEATURE_CACHE_TTL must be positive")
	}
	if config.Render.ViewportWidth <= 0 || config.Render.ViewportHeight <= 0 {
		return errors.ConfigInvalid("viewport size must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvDurationOrDefault accepts Go durations ("30s") or plain seconds ("30").
func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}
	return defaultValue
}
