package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("DOSELY_HOME", home)
	t.Setenv("USER", "ana")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Calendar != "primary" || cfg.Medication != "CONCERTA" || cfg.Source != SourceDB {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if cfg.Owner != "ana" {
		t.Errorf("expected owner from $USER, got %q", cfg.Owner)
	}
	if want := "sqlite://" + filepath.Join(home, "dosely.db"); cfg.Database != want {
		t.Errorf("expected database %q, got %q", want, cfg.Database)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	home := t.TempDir()
	t.Setenv("DOSELY_HOME", home)
	path := filepath.Join(home, "config.yaml")
	data := "calendar: Focus\nmedication: RITALIN\nsource: taskwarrior\ncolors:\n  hard: \"4\"\n"
	if err := os.WriteFile(path, []byte(data), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DOSELY_MEDICATION", "CONCERTA")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Calendar != "Focus" || cfg.Source != SourceTaskwarrior {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Medication != "CONCERTA" {
		t.Errorf("expected env override, got %q", cfg.Medication)
	}
	if cfg.Colors["hard"] != "4" {
		t.Errorf("expected colors override, got %v", cfg.Colors)
	}
}

func TestLoadRejectsUnknownSource(t *testing.T) {
	t.Setenv("DOSELY_HOME", t.TempDir())
	t.Setenv("DOSELY_SOURCE", "jira")
	if _, err := Load(""); err == nil {
		t.Error("expected an error for an unknown source")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	home := t.TempDir()
	t.Setenv("DOSELY_HOME", home)

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Calendar = "Meds"
	cfg.Timezone = "UTC"
	if err := Save(cfg, ""); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if got.Calendar != "Meds" || got.Timezone != "UTC" {
		t.Errorf("round trip lost values: %+v", got)
	}
	loc, err := got.Location()
	if err != nil || loc.String() != "UTC" {
		t.Errorf("Location() = %v, %v", loc, err)
	}
}
