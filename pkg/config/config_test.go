package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFrom_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.UI.ShowRankBadges {
		t.Error("default ShowRankBadges should be true")
	}
	if cfg.Editor.HistorySize != 100 {
		t.Errorf("default HistorySize = %d, want 100", cfg.Editor.HistorySize)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := DefaultConfig()
	cfg.Server.URL = "https://signage.example.org/api"
	cfg.Editor.SubOrgMode = true
	cfg.SetFavorite(1, "lobby")

	if err := SaveTo(cfg, path); err != nil {
		t.Fatal(err)
	}
	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Server.URL != cfg.Server.URL {
		t.Errorf("URL = %q, want %q", loaded.Server.URL, cfg.Server.URL)
	}
	if !loaded.Editor.SubOrgMode {
		t.Error("SubOrgMode lost in round trip")
	}
	if loaded.FavoriteNumber("Lobby") != 1 {
		t.Error("favorite lookup should be case-insensitive")
	}
}

func TestLoadFrom_EnvTokenOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := DefaultConfig()
	cfg.Server.Token = "stored-token"
	if err := SaveTo(cfg, path); err != nil {
		t.Fatal(err)
	}

	t.Setenv("OSEDIT_TOKEN", "env-token")
	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Server.Token != "env-token" {
		t.Errorf("token = %q, want env override", loaded.Server.Token)
	}
}

func TestLoadFrom_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("{not yaml"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestSetFavorite_EmptyNameDeletes(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SetFavorite(2, "foyer")
	cfg.SetFavorite(2, "")
	if n := cfg.FavoriteNumber("foyer"); n != 0 {
		t.Errorf("favorite not removed, got %d", n)
	}
}
