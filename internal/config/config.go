// Package config provides configuration management for the Outclass odds service.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app" validate:"required"`
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	OddsAPI   OddsAPIConfig   `mapstructure:"odds_api" validate:"required"`
	Arbitrage ArbitrageConfig `mapstructure:"arbitrage" validate:"required"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Secrets   SecretsConfig   `mapstructure:"secrets"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// ServerConfig represents the HTTP server configuration
type ServerConfig struct {
	Port                int      `mapstructure:"port" validate:"required,min=1,max=65535"`
	ReadTimeoutSeconds  int      `mapstructure:"read_timeout_seconds" validate:"required,gt=0"`
	WriteTimeoutSeconds int      `mapstructure:"write_timeout_seconds" validate:"required,gt=0"`
	IdleTimeoutSeconds  int      `mapstructure:"idle_timeout_seconds" validate:"required,gt=0"`
	CORSOrigins         []string `mapstructure:"cors_origins" validate:"required,min=1"`
}

// OddsAPIConfig represents The Odds API client configuration
type OddsAPIConfig struct {
	BaseURL                       string  `mapstructure:"base_url" validate:"required,url"`
	APIKey                        string  `mapstructure:"api_key"`
	DefaultSport                  string  `mapstructure:"default_sport" validate:"required"`
	DefaultRegion                 string  `mapstructure:"default_region" validate:"required"`
	DefaultMarket                 string  `mapstructure:"default_market" validate:"required,markettype"`
	TimeoutSeconds                int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	MaxRetries                    int     `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	RateLimit                     float64 `mapstructure:"rate_limit" validate:"gte=0"`
	CircuitBreakerMax             int     `mapstructure:"circuit_breaker_max" validate:"required,gt=0"`
	CircuitBreakerCooldownSeconds int     `mapstructure:"circuit_breaker_cooldown_seconds" validate:"gte=0"`
	CacheTTLSeconds               int     `mapstructure:"cache_ttl_seconds" validate:"gte=0"`
	CacheBackend                  string  `mapstructure:"cache_backend" validate:"required,oneof=memory redis"`
	RedisURL                      string  `mapstructure:"redis_url"`
}

// ArbitrageConfig represents the analysis engine configuration
type ArbitrageConfig struct {
	DefaultStake float64 `mapstructure:"default_stake" validate:"required,gt=0"`
	MarketKey    string  `mapstructure:"market_key" validate:"required,markettype"`
	Workers      int     `mapstructure:"workers" validate:"required,min=1,max=64"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"required_if=Enabled true"`
}

// SecretsConfig controls the AWS Secrets Manager overlay
type SecretsConfig struct {
	AWSEnabled    bool   `mapstructure:"aws_enabled"`
	AWSRegion     string `mapstructure:"aws_region"`
	AWSSecretName string `mapstructure:"aws_secret_name"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// ServerAddress returns the listen address for the HTTP server
func (c *Config) ServerAddress() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// ReadTimeout returns the server read timeout
func (s ServerConfig) ReadTimeout() time.Duration {
	return time.Duration(s.ReadTimeoutSeconds) * time.Second
}

// WriteTimeout returns the server write timeout
func (s ServerConfig) WriteTimeout() time.Duration {
	return time.Duration(s.WriteTimeoutSeconds) * time.Second
}

// IdleTimeout returns the server idle timeout
func (s ServerConfig) IdleTimeout() time.Duration {
	return time.Duration(s.IdleTimeoutSeconds) * time.Second
}

// Timeout returns the per-request provider timeout
func (o OddsAPIConfig) Timeout() time.Duration {
	return time.Duration(o.TimeoutSeconds) * time.Second
}

// CacheTTL returns how long provider responses are cached
func (o OddsAPIConfig) CacheTTL() time.Duration {
	return time.Duration(o.CacheTTLSeconds) * time.Second
}

// CircuitBreakerCooldown returns the open-state cooldown as a time.Duration
func (o OddsAPIConfig) CircuitBreakerCooldown() time.Duration {
	return time.Duration(o.CircuitBreakerCooldownSeconds) * time.Second
}
