package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SOVEREIGN_THEME", "dracula")
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Theme != "dracula" {
		t.Fatalf("theme %q", cfg.Theme)
	}
	if cfg.JournalPath != "sovereign-journal.db" {
		t.Fatalf("journal path %q", cfg.JournalPath)
	}
}

func TestLoadConfigBadBool(t *testing.T) {
	t.Setenv("SOVEREIGN_OFFLINE", "perhaps")
	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestLoadTuningMissingFile(t *testing.T) {
	got, err := LoadTuning(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadTuning: %v", err)
	}
	if got.PlayerTag != "FRA" || got.MapWidth != 24 {
		t.Fatalf("defaults not applied: %+v", got)
	}
}

func TestLoadTuningOverlay(t *testing.T) {
	p := filepath.Join(t.TempDir(), "tuning.yaml")
	body := "player_tag: CAS\nstart_treasury: 250\nrivals: [POR, ARA]\n"
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	got, err := LoadTuning(p)
	if err != nil {
		t.Fatalf("LoadTuning: %v", err)
	}
	if got.PlayerTag != "CAS" || got.StartTreasury != 250 || len(got.Rivals) != 2 {
		t.Fatalf("overlay not applied: %+v", got)
	}
	if got.StartDate != "1444-11-11" {
		t.Fatalf("unset field lost its default: %q", got.StartDate)
	}
}

func TestLoadTuningRejectsEmptyMap(t *testing.T) {
	p := filepath.Join(t.TempDir(), "tuning.yaml")
	if err := os.WriteFile(p, []byte("map_width: 0\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadTuning(p); err == nil {
		t.Fatalf("expected error for empty map")
	}
}
