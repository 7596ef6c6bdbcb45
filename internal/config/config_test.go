package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultsAreValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	p := filepath.Join(t.TempDir(), "server.toml")
	body := `
[server]
language = "zh-TW"

[pursuit]
interval = "250ms"

[combat]
max_hold = "10s"

[[region.list]]
id = 7
name = "harbor"

[[region.list]]
id = 8
name = "keep"
`
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Pursuit.Interval != 250*time.Millisecond {
		t.Fatalf("expected 250ms interval, got %v", cfg.Pursuit.Interval)
	}
	if cfg.Combat.MaxHold != 10*time.Second {
		t.Fatalf("expected 10s hold, got %v", cfg.Combat.MaxHold)
	}
	if cfg.Combat.StickRange != 90 {
		t.Fatalf("expected default stick range to survive, got %v", cfg.Combat.StickRange)
	}
	if len(cfg.Region.List) != 2 || cfg.Region.List[1].Name != "keep" {
		t.Fatalf("unexpected region list %+v", cfg.Region.List)
	}
}

func TestValidateCollectsErrors(t *testing.T) {
	cfg := Default()
	cfg.Region.TickRate = 0
	cfg.Region.List = append(cfg.Region.List, cfg.Region.List[0])
	cfg.Journal.Enabled = true
	cfg.Journal.DSN = ""
	err := cfg.Validate()
	if err == nil {
		t.Fatalf("expected validation errors")
	}
	for _, want := range []string{"tick_rate", "listed twice", "journal.dsn"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %q in %v", want, err)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatalf("expected error")
	}
}
