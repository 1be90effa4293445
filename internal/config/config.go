// Package config loads bot configuration from an optional YAML file with
// environment-variable overrides. Environment always wins, so a deployment
// can ship a config file and still tweak single values per instance.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds everything the bot needs at startup.
type Config struct {
	// BotToken is the Telegram bot API token. Required.
	BotToken string `yaml:"botToken"`
	// BackupDir is where dump artifacts and downloaded restore files live.
	BackupDir string `yaml:"backupDir"`
	// PageSize is the number of databases per selection-menu page.
	PageSize int `yaml:"pageSize"`
	// MongoTimeoutSeconds bounds server selection when listing/dropping.
	MongoTimeoutSeconds int `yaml:"mongoTimeoutSeconds"`
	// ListenAddr is the operational HTTP server address.
	ListenAddr string `yaml:"listenAddr"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"logLevel"`
}

func defaults() Config {
	return Config{
		BackupDir:           "./backups",
		PageSize:            8,
		MongoTimeoutSeconds: 5,
		ListenAddr:          ":8080",
		LogLevel:            "info",
	}
}

// Load reads the YAML file at path (skipped when path is empty or the file
// does not exist), applies environment overrides, and validates the result.
func Load(path string) (Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Config file is optional; env alone is a valid setup.
		case err != nil:
			return Config{}, fmt.Errorf("reading config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parsing config file: %w", err)
			}
		}
	}

	cfg.BotToken = getEnv("BOT_TOKEN", cfg.BotToken)
	cfg.BackupDir = getEnv("BACKUP_DIR", cfg.BackupDir)
	cfg.PageSize = getEnvInt("PAGE_SIZE", cfg.PageSize)
	cfg.MongoTimeoutSeconds = getEnvInt("MONGO_TIMEOUT_SECONDS", cfg.MongoTimeoutSeconds)
	cfg.ListenAddr = getEnv("LISTEN_ADDR", cfg.ListenAddr)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the configuration can actually run a bot.
func (c Config) Validate() error {
	if c.BotToken == "" {
		return fmt.Errorf("config error: bot token is required (BOT_TOKEN)")
	}
	if c.PageSize < 1 {
		return fmt.Errorf("config error: page size must be positive, got %d", c.PageSize)
	}
	if c.MongoTimeoutSeconds < 1 {
		return fmt.Errorf("config error: mongo timeout must be positive, got %d", c.MongoTimeoutSeconds)
	}
	return nil
}

// MongoTimeout returns the server-selection timeout as a duration.
func (c Config) MongoTimeout() time.Duration {
	return time.Duration(c.MongoTimeoutSeconds) * time.Second
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}
