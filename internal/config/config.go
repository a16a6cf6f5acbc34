package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config defines dashboard configuration.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Search  SearchConfig  `yaml:"search"`
	Log     LogConfig     `yaml:"log"`
	MockAPI MockAPIConfig `yaml:"mockapi"`
}

type APIConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type SearchConfig struct {
	DebounceMillis int `yaml:"debounce_millis"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type MockAPIConfig struct {
	Host   string `yaml:"host"`
	Port   int    `yaml:"port"`
	DBPath string `yaml:"db_path"`
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		API: APIConfig{
			BaseURL:        "http://localhost:5000",
			TimeoutSeconds: 15,
		},
		Search: SearchConfig{
			DebounceMillis: 500,
		},
		Log: LogConfig{
			Level: "info",
		},
		MockAPI: MockAPIConfig{
			Host:   "127.0.0.1",
			Port:   5001,
			DBPath: "skcdash.db",
		},
	}

	if path := os.Getenv("SKCDASH_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if baseURL := os.Getenv("SKCDASH_API_BASE_URL"); baseURL != "" {
		cfg.API.BaseURL = baseURL
	}
	if timeoutStr := os.Getenv("SKCDASH_API_TIMEOUT_SECONDS"); timeoutStr != "" {
		timeout, err := strconv.Atoi(timeoutStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SKCDASH_API_TIMEOUT_SECONDS: %w", err)
		}
		cfg.API.TimeoutSeconds = timeout
	}
	if level := os.Getenv("SKCDASH_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if portStr := os.Getenv("SKCDASH_MOCKAPI_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SKCDASH_MOCKAPI_PORT: %w", err)
		}
		cfg.MockAPI.Port = port
	}
	if dbPath := os.Getenv("SKCDASH_MOCKAPI_DB_PATH"); dbPath != "" {
		cfg.MockAPI.DBPath = dbPath
	}

	return cfg, nil
}

// ParseLogLevel maps a level name to a slog level; unknown names fall back to
// info.
func ParseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
