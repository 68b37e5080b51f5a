package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	ProviderMemory = "memory"
	ProviderSQLite = "sqlite"
)

type Config struct {
	Server  ServerConfig
	Data    DataConfig
	Wizard  WizardConfig
	Logging LoggingConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	ReleaseMode  bool
	RateLimitRPS int
	CORSOrigins  []string
}

// DataConfig selects the provider the dashboard reads from. The SQLite
// provider defaults to an in-memory database so nothing survives a restart.
type DataConfig struct {
	Provider string
	DBPath   string
}

type WizardConfig struct {
	RedirectDelay time.Duration
	DraftTTL      time.Duration
}

type LoggingConfig struct {
	Level string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "localhost"),
			Port:         getEnvInt("SERVER_PORT", 8080),
			ReleaseMode:  getEnvBool("GIN_RELEASE_MODE", true),
			RateLimitRPS: getEnvInt("RATE_LIMIT_RPS", 20),
			CORSOrigins:  getEnvList("CORS_ORIGINS", []string{"*"}),
		},
		Data: DataConfig{
			Provider: getEnv("DATA_PROVIDER", ProviderMemory),
			DBPath:   getEnv("DB_PATH", ":memory:"),
		},
		Wizard: WizardConfig{
			RedirectDelay: getEnvDuration("WIZARD_REDIRECT_DELAY", 2*time.Second),
			DraftTTL:      getEnvDuration("WIZARD_DRAFT_TTL", 30*time.Minute),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.RateLimitRPS < 1 {
		return fmt.Errorf("rate limit must be at least 1 request per second")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	switch c.Data.Provider {
	case ProviderMemory, ProviderSQLite:
	default:
		return fmt.Errorf("invalid data provider: %s", c.Data.Provider)
	}

	if c.Wizard.RedirectDelay < 0 {
		return fmt.Errorf("wizard redirect delay must not be negative")
	}
	if c.Wizard.DraftTTL < time.Minute {
		return fmt.Errorf("wizard draft TTL must be at least 1 minute")
	}

	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}

// getEnvList splits a comma separated value, dropping empty entries.
func getEnvList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
