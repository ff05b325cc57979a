package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"ALGO_STRATEGY", "ALGO_TRANSPORT", "DATABASE_URL", "REDIS_URL", "SEED", "JOURNAL_TIMEOUT"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	if cfg.Strategy != "funnel" || cfg.Transport != "stdio" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.DatabaseURL != "" || cfg.RedisURL != "" {
		t.Fatalf("journal sinks should be off by default: %+v", cfg)
	}
	if cfg.Seed != 0 || cfg.JournalTimeout != 2*time.Second {
		t.Fatalf("unexpected seed/timeout: %d %v", cfg.Seed, cfg.JournalTimeout)
	}
}

func TestLoadOverrides(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		seed    int64
		timeout time.Duration
	}{
		{"valid", map[string]string{"SEED": "42", "JOURNAL_TIMEOUT": "500ms"}, 42, 500 * time.Millisecond},
		{"malformed", map[string]string{"SEED": "x", "JOURNAL_TIMEOUT": "-1s"}, 0, 2 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg := Load()
			if cfg.Seed != tt.seed {
				t.Errorf("seed = %d, want %d", cfg.Seed, tt.seed)
			}
			if cfg.JournalTimeout != tt.timeout {
				t.Errorf("timeout = %v, want %v", cfg.JournalTimeout, tt.timeout)
			}
		})
	}
}
