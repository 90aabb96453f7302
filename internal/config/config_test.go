package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `
server:
  port: "9090"
redis:
  addr: localhost:6379
  ttl: 15m
quiz:
  bank_ttl: 5m
  catalog_path: config/catalog.yaml
  default_time_limit: 45
  require_answer: true
  history_limit: 10
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "9090" || cfg.Redis.Addr != "localhost:6379" {
		t.Fatalf("unexpected server/redis config %+v", cfg)
	}
	if cfg.Quiz.DefaultTimeLimit != 45 || !cfg.Quiz.RequireAnswer || cfg.Quiz.HistoryLimit != 10 {
		t.Fatalf("unexpected quiz config %+v", cfg.Quiz)
	}
	if cfg.Quiz.CatalogPath != "config/catalog.yaml" {
		t.Fatalf("unexpected catalog path %q", cfg.Quiz.CatalogPath)
	}
}

func TestTTLDuration(t *testing.T) {
	if got := TTLDuration("", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback for empty, got %s", got)
	}
	if got := TTLDuration("garbage", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback for invalid, got %s", got)
	}
	if got := TTLDuration("90s", time.Minute); got != 90*time.Second {
		t.Fatalf("expected 90s, got %s", got)
	}
}
