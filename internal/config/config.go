// Package config loads service configuration from defaults, an optional .env
// file, and SKYNETRA_* environment variables, in that order of precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Providers ProvidersConfig
	Cache     CacheConfig
	Monitor   MonitorConfig
}

type ServerConfig struct {
	Port int
}

type StorageConfig struct {
	DataDir string
}

// ProvidersConfig holds the ranked generation provider credentials. Every key
// is optional; a provider without a key fails fast inside the fallback chain
// and the next one is tried.
type ProvidersConfig struct {
	OpenRouterAPIKey string
	GroqAPIKey       string
	CohereAPIKey     string
}

type CacheConfig struct {
	TTL time.Duration
}

// MonitorConfig controls the background risk sweep over watched locations.
type MonitorConfig struct {
	Interval time.Duration
	Enabled  bool
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Port: 5000,
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir(),
		},
		Cache: CacheConfig{
			TTL: 5 * time.Minute,
		},
		Monitor: MonitorConfig{
			Interval: 5 * time.Minute,
			Enabled:  true,
		},
	}
}

func defaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "skynetra")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "skynetra-data"
	}
	return filepath.Join(home, ".local", "share", "skynetra")
}

// Load reads configuration. A .env file in the working directory is applied
// first when present, then SKYNETRA_* variables override everything.
func Load() (Config, error) {
	// Missing .env is the normal case, not an error.
	_ = godotenv.Load()
	return loadFromEnv()
}

func loadFromEnv() (Config, error) {
	cfg := defaults()

	if v := os.Getenv("SKYNETRA_SERVER_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("parsing SKYNETRA_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if v := os.Getenv("SKYNETRA_DATA_DIR"); v != "" {
		cfg.Storage.DataDir = v
	}
	if v := os.Getenv("SKYNETRA_OPENROUTER_API_KEY"); v != "" {
		cfg.Providers.OpenRouterAPIKey = v
	}
	if v := os.Getenv("SKYNETRA_GROQ_API_KEY"); v != "" {
		cfg.Providers.GroqAPIKey = v
	}
	if v := os.Getenv("SKYNETRA_COHERE_API_KEY"); v != "" {
		cfg.Providers.CohereAPIKey = v
	}
	if v := os.Getenv("SKYNETRA_CACHE_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("parsing SKYNETRA_CACHE_TTL: %w", err)
		}
		cfg.Cache.TTL = ttl
	}
	if v := os.Getenv("SKYNETRA_MONITOR_INTERVAL"); v != "" {
		interval, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("parsing SKYNETRA_MONITOR_INTERVAL: %w", err)
		}
		cfg.Monitor.Interval = interval
	}
	if v := os.Getenv("SKYNETRA_MONITOR_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("parsing SKYNETRA_MONITOR_ENABLED: %w", err)
		}
		cfg.Monitor.Enabled = enabled
	}

	return cfg, nil
}
