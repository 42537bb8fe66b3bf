package config

import (
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg, err := loadFromEnv()
	if err != nil {
		t.Fatalf("loadFromEnv: %v", err)
	}
	if cfg.Server.Port != 5000 {
		t.Errorf("default port = %d, want 5000", cfg.Server.Port)
	}
	if cfg.Cache.TTL != 5*time.Minute {
		t.Errorf("default cache TTL = %v", cfg.Cache.TTL)
	}
	if !cfg.Monitor.Enabled {
		t.Error("monitor should default to enabled")
	}
	if cfg.Providers.OpenRouterAPIKey != "" {
		t.Error("provider keys should default to empty")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SKYNETRA_SERVER_PORT", "8080")
	t.Setenv("SKYNETRA_DATA_DIR", "/tmp/skynetra-test")
	t.Setenv("SKYNETRA_OPENROUTER_API_KEY", "or-key")
	t.Setenv("SKYNETRA_GROQ_API_KEY", "groq-key")
	t.Setenv("SKYNETRA_COHERE_API_KEY", "co-key")
	t.Setenv("SKYNETRA_CACHE_TTL", "90s")
	t.Setenv("SKYNETRA_MONITOR_INTERVAL", "2m")
	t.Setenv("SKYNETRA_MONITOR_ENABLED", "false")

	cfg, err := loadFromEnv()
	if err != nil {
		t.Fatalf("loadFromEnv: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.Storage.DataDir != "/tmp/skynetra-test" {
		t.Errorf("data dir = %q", cfg.Storage.DataDir)
	}
	if cfg.Providers.OpenRouterAPIKey != "or-key" || cfg.Providers.GroqAPIKey != "groq-key" || cfg.Providers.CohereAPIKey != "co-key" {
		t.Errorf("provider keys = %+v", cfg.Providers)
	}
	if cfg.Cache.TTL != 90*time.Second {
		t.Errorf("cache TTL = %v", cfg.Cache.TTL)
	}
	if cfg.Monitor.Interval != 2*time.Minute {
		t.Errorf("monitor interval = %v", cfg.Monitor.Interval)
	}
	if cfg.Monitor.Enabled {
		t.Error("monitor should be disabled")
	}
}

func TestInvalidValues(t *testing.T) {
	cases := map[string]string{
		"SKYNETRA_SERVER_PORT":      "not-a-port",
		"SKYNETRA_CACHE_TTL":        "five minutes",
		"SKYNETRA_MONITOR_INTERVAL": "often",
		"SKYNETRA_MONITOR_ENABLED":  "maybe",
	}
	for env, val := range cases {
		t.Run(env, func(t *testing.T) {
			t.Setenv(env, val)
			if _, err := loadFromEnv(); err == nil {
				t.Errorf("expected error for %s=%q", env, val)
			}
		})
	}
}
