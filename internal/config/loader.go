package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const (
	// DefaultConfigPath is used when no path is given on the command line or in the environment.
	DefaultConfigPath = "config/config.yaml"

	envPrefix     = "OUTCLASS"
	envConfigPath = "OUTCLASS_CONFIG_PATH"

	// OddsAPIKeyEnv is the conventional variable for The Odds API key. It is used when
	// no key is configured any other way.
	OddsAPIKeyEnv = "THE_ODDS_API_KEY"
)

// ResolvePath picks the configuration file path: explicit flag, then
// OUTCLASS_CONFIG_PATH, then the default location.
func ResolvePath(flagPath string) string {
	if flagPath != "" {
		return flagPath
	}
	if envPath := os.Getenv(envConfigPath); envPath != "" {
		return envPath
	}
	return DefaultConfigPath
}

// Load reads and parses the configuration from file and environment variables
// It expands environment variable placeholders in the YAML file (${VAR_NAME})
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	v := newViper()
	if err := readExpanded(v, data); err != nil {
		return nil, err
	}

	return unmarshal(v)
}

// LoadWithDefaults loads configuration with default values for every field.
// A missing file is not an error: defaults and environment variables are used.
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}

	v := newViper()
	setDefaults(v)

	if data, err := os.ReadFile(configPath); err == nil {
		if err := readExpanded(v, data); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return unmarshal(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")

	// OUTCLASS_ODDS_API_BASE_URL overrides odds_api.base_url and so on
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// readExpanded expands ${VAR} placeholders before handing the YAML to viper
func readExpanded(v *viper.Viper, data []byte) error {
	expanded := os.ExpandEnv(string(data))
	if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

func unmarshal(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	applyEnvFallbacks(cfg)
	return cfg, nil
}

func applyEnvFallbacks(cfg *Config) {
	cfg.OddsAPI.APIKey = strings.TrimSpace(cfg.OddsAPI.APIKey)
	if cfg.OddsAPI.APIKey == "" {
		cfg.OddsAPI.APIKey = strings.TrimSpace(os.Getenv(OddsAPIKeyEnv))
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "outclass-odds")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("server.port", 8000)
	v.SetDefault("server.read_timeout_seconds", 15)
	v.SetDefault("server.write_timeout_seconds", 30)
	v.SetDefault("server.idle_timeout_seconds", 60)
	v.SetDefault("server.cors_origins", []string{"*"})

	v.SetDefault("odds_api.base_url", "https://api.the-odds-api.com/v4")
	v.SetDefault("odds_api.api_key", "")
	v.SetDefault("odds_api.default_sport", "soccer_epl")
	v.SetDefault("odds_api.default_region", "us")
	v.SetDefault("odds_api.default_market", "h2h")
	v.SetDefault("odds_api.timeout_seconds", 10)
	v.SetDefault("odds_api.max_retries", 3)
	v.SetDefault("odds_api.rate_limit", 2.0)
	v.SetDefault("odds_api.circuit_breaker_max", 5)
	v.SetDefault("odds_api.circuit_breaker_cooldown_seconds", 30)
	v.SetDefault("odds_api.cache_ttl_seconds", 60)
	v.SetDefault("odds_api.cache_backend", "memory")
	v.SetDefault("odds_api.redis_url", "")

	v.SetDefault("arbitrage.default_stake", 100.0)
	v.SetDefault("arbitrage.market_key", "h2h")
	v.SetDefault("arbitrage.workers", 4)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("secrets.aws_enabled", false)
	v.SetDefault("secrets.aws_region", "")
	v.SetDefault("secrets.aws_secret_name", "")
}
