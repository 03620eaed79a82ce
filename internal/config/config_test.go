package config

import (
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{WriteTimeout: 120 * time.Second},
		Auth:   AuthConfig{JWTSecret: "secret"},
		Engine: EngineConfig{URL: "http://judge0:2358", RequestTimeout: 10 * time.Second},
		Judge: JudgeConfig{
			PollInterval:    time.Second,
			MaxPollAttempts: 60,
			Timeout:         90 * time.Second,
		},
		Worker: WorkerConfig{PoolSize: 4},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"missing secret", func(c *Config) { c.Auth.JWTSecret = "" }, true},
		{"missing engine", func(c *Config) { c.Engine.URL = "" }, true},
		{"zero attempts", func(c *Config) { c.Judge.MaxPollAttempts = 0 }, true},
		{"budget exceeds write timeout", func(c *Config) { c.Judge.Timeout = 150 * time.Second }, true},
		{"budget plus dispatch exceeds write timeout", func(c *Config) { c.Judge.Timeout = 115 * time.Second }, true},
		{"budget plus dispatch fits", func(c *Config) { c.Judge.Timeout = 105 * time.Second }, false},
		{"archive without bucket", func(c *Config) {
			c.Archive = ArchiveConfig{Enabled: true, Endpoint: "minio:9000"}
		}, true},
		{"archive configured", func(c *Config) {
			c.Archive = ArchiveConfig{Enabled: true, Endpoint: "minio:9000", Bucket: "submissions"}
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("JUDGE_MAX_POLL_ATTEMPTS", "5")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Auth.JWTSecret != "from-env" {
		t.Errorf("JWTSecret = %q, want from-env", cfg.Auth.JWTSecret)
	}
	if cfg.Judge.MaxPollAttempts != 5 {
		t.Errorf("MaxPollAttempts = %d, want 5", cfg.Judge.MaxPollAttempts)
	}
	if cfg.Judge.PollInterval != time.Second {
		t.Errorf("PollInterval = %s, want 1s", cfg.Judge.PollInterval)
	}
	if len(cfg.Server.AllowedOrigins) != 2 || cfg.Server.AllowedOrigins[1] != "http://b.test" {
		t.Errorf("AllowedOrigins = %v", cfg.Server.AllowedOrigins)
	}
}

func TestNewLogger_RejectsUnknownLevel(t *testing.T) {
	if _, err := NewLogger(LogConfig{Level: "loud"}); err == nil {
		t.Fatal("expected error for unknown level")
	}
	logger, err := NewLogger(LogConfig{Level: "debug", Format: "console"})
	if err != nil {
		t.Fatalf("NewLogger() error: %v", err)
	}
	_ = logger.Sync()
}
