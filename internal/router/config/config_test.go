package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	t.Run("defaults without file", func(t *testing.T) {
		cfg, err := LoadConfig(t.TempDir())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.ServerAddress != ":3001" {
			t.Fatalf("expected :3001, got %q", cfg.ServerAddress)
		}
		if cfg.MigrationURL != "embed://" {
			t.Fatalf("expected embed://, got %q", cfg.MigrationURL)
		}
		if cfg.JWTTTL != time.Hour {
			t.Fatalf("expected 1h, got %v", cfg.JWTTTL)
		}
		if cfg.PhotoFetchConcurrency != 8 {
			t.Fatalf("expected 8, got %d", cfg.PhotoFetchConcurrency)
		}
		if cfg.LoginFailLimit != 5 || cfg.LoginLockTTL != 15*time.Minute {
			t.Fatalf("unexpected lockout config: %d %v", cfg.LoginFailLimit, cfg.LoginLockTTL)
		}
		if cfg.ReportTimezone != "America/Campo_Grande" {
			t.Fatalf("unexpected timezone %q", cfg.ReportTimezone)
		}
		if cfg.CORSOrigin != "*" {
			t.Fatalf("unexpected cors origin %q", cfg.CORSOrigin)
		}
	})

	t.Run("file and env override", func(t *testing.T) {
		dir := t.TempDir()
		content := "SERVER_ADDRESS=:8080\nJWT_SECRET=from-file\nREQUEST_TIMEOUT=3s\nAWS_BUCKET_NAME=fotos\n"
		if err := os.WriteFile(filepath.Join(dir, "app.env"), []byte(content), 0o600); err != nil {
			t.Fatalf("write app.env: %v", err)
		}
		t.Setenv("JWT_SECRET", "from-env")

		cfg, err := LoadConfig(dir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.ServerAddress != ":8080" {
			t.Fatalf("expected :8080, got %q", cfg.ServerAddress)
		}
		if cfg.JWTSecret != "from-env" {
			t.Fatalf("expected env to win, got %q", cfg.JWTSecret)
		}
		if cfg.RequestTimeout != 3*time.Second {
			t.Fatalf("expected 3s, got %v", cfg.RequestTimeout)
		}
		if cfg.AWSBucketName != "fotos" {
			t.Fatalf("expected fotos, got %q", cfg.AWSBucketName)
		}
	})
}

func TestValidate(t *testing.T) {
	ok := Config{PostgresConn: "postgres://x", JWTSecret: "s", AWSBucketName: "b"}
	if err := ok.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name string
		mut  func(*Config)
	}{
		{"no postgres", func(c *Config) { c.PostgresConn = "" }},
		{"no secret", func(c *Config) { c.JWTSecret = "" }},
		{"no bucket", func(c *Config) { c.AWSBucketName = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := ok
			tt.mut(&c)
			if err := c.Validate(); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
