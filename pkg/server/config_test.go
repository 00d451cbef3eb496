package server

import (
	"os"
	"testing"
	"time"
)

func TestParseConfig(t *testing.T) {
	t.Run("default config", func(t *testing.T) {
		cfg := parseConfig()

		if cfg.Address != "" {
			t.Errorf("expected empty address, got %s", cfg.Address)
		}

		if cfg.Port != 8080 {
			t.Errorf("expected port 8080, got %d", cfg.Port)
		}

		if cfg.RateLimit != 100 {
			t.Errorf("expected rate limit 100, got %v", cfg.RateLimit)
		}

		if cfg.RateLimitBurst != 200 {
			t.Errorf("expected rate limit burst 200, got %d", cfg.RateLimitBurst)
		}

		if cfg.ReadTimeout != 10*time.Second {
			t.Errorf("expected read timeout 10s, got %v", cfg.ReadTimeout)
		}

		if cfg.ShutdownTimeout != 30*time.Second {
			t.Errorf("expected shutdown timeout 30s, got %v", cfg.ShutdownTimeout)
		}

		if cfg.AppsFile != "apps.yaml" {
			t.Errorf("expected apps.yaml, got %s", cfg.AppsFile)
		}

		if cfg.MonitorsFile != "status_monitors.yaml" {
			t.Errorf("expected status_monitors.yaml, got %s", cfg.MonitorsFile)
		}
	})

	t.Run("custom port from environment", func(t *testing.T) {
		os.Setenv("PORT", "9090")
		defer os.Unsetenv("PORT")

		cfg := parseConfig()

		if cfg.Port != 9090 {
			t.Errorf("expected port 9090 from env, got %d", cfg.Port)
		}
	})

	t.Run("invalid port from environment uses default", func(t *testing.T) {
		os.Setenv("PORT", "invalid")
		defer os.Unsetenv("PORT")

		cfg := parseConfig()

		if cfg.Port != 8080 {
			t.Errorf("expected default port 8080 for invalid env, got %d", cfg.Port)
		}
	})

	t.Run("shutdown timeout from environment", func(t *testing.T) {
		os.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "45")
		defer os.Unsetenv("SHUTDOWN_TIMEOUT_SECONDS")

		cfg := parseConfig()

		if cfg.ShutdownTimeout != 45*time.Second {
			t.Errorf("expected shutdown timeout 45s, got %v", cfg.ShutdownTimeout)
		}
	})

	t.Run("content files from environment", func(t *testing.T) {
		os.Setenv("APPS_FILE", "/etc/cirrus/apps.yaml")
		os.Setenv("STATUS_MONITORS_FILE", "/etc/cirrus/status_monitors.yaml")
		defer os.Unsetenv("APPS_FILE")
		defer os.Unsetenv("STATUS_MONITORS_FILE")

		cfg := parseConfig()

		if cfg.AppsFile != "/etc/cirrus/apps.yaml" {
			t.Errorf("expected apps file from env, got %s", cfg.AppsFile)
		}
		if cfg.MonitorsFile != "/etc/cirrus/status_monitors.yaml" {
			t.Errorf("expected monitors file from env, got %s", cfg.MonitorsFile)
		}
	})
}
