// Package config handles loading and saving osedit configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/osedit/config.yaml
//   - Data:    ~/.local/share/osedit/ (local content store)
//   - State:   ~/.local/state/osedit/ (recent slideshows, view state cache)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ServerConfig holds the backend connection settings.
type ServerConfig struct {
	URL   string `yaml:"url,omitempty"`    // REST API base URL
	WSURL string `yaml:"ws_url,omitempty"` // websocket endpoint; derived from URL when empty
	Token string `yaml:"token,omitempty"`  // access token; usually injected via OSEDIT_TOKEN
}

// UIConfig holds UI preference settings.
type UIConfig struct {
	ShowRankBadges bool `yaml:"show_rank_badges,omitempty"` // Rank numbers in the layers panel
	ConfirmDelete  bool `yaml:"confirm_delete,omitempty"`   // Ask before deleting elements
}

// EditorConfig holds editor behavior settings.
type EditorConfig struct {
	SubOrgMode  bool   `yaml:"suborg_mode,omitempty"` // Honor parent-template locks
	MediaDir    string `yaml:"media_dir,omitempty"`   // Local content library directory
	HistorySize int    `yaml:"history_size,omitempty"`
}

// Config is the top-level configuration for osedit.
type Config struct {
	Server    ServerConfig   `yaml:"server,omitempty"`
	UI        UIConfig       `yaml:"ui,omitempty"`
	Editor    EditorConfig   `yaml:"editor,omitempty"`
	Favorites map[int]string `yaml:"favorites,omitempty"` // Number key (1-9) -> slideshow name
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		UI: UIConfig{
			ShowRankBadges: true,
			ConfirmDelete:  true,
		},
		Editor: EditorConfig{
			HistorySize: 100,
		},
		Favorites: make(map[int]string),
	}
}

// ConfigDir returns the XDG config directory for osedit.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "osedit")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "osedit")
}

// DataDir returns the XDG data directory for osedit.
func DataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "osedit")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share", "osedit")
}

// StateDir returns the XDG state directory for osedit.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "osedit")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", "osedit")
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist. The OSEDIT_TOKEN
// environment variable overrides the stored token.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return applyEnv(cfg), nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.Favorites == nil {
		cfg.Favorites = make(map[int]string)
	}
	if cfg.Editor.HistorySize <= 0 {
		cfg.Editor.HistorySize = 100
	}
	cfg.Editor.MediaDir = expandHome(cfg.Editor.MediaDir)

	return applyEnv(cfg), nil
}

func applyEnv(cfg Config) Config {
	if token := os.Getenv("OSEDIT_TOKEN"); token != "" {
		cfg.Server.Token = token
	}
	if url := os.Getenv("OSEDIT_SERVER"); url != "" {
		cfg.Server.URL = url
	}
	return cfg
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// SetFavorite assigns a slideshow name to a number key (1-9).
func (c *Config) SetFavorite(n int, name string) {
	if c.Favorites == nil {
		c.Favorites = make(map[int]string)
	}
	if name == "" {
		delete(c.Favorites, n)
	} else {
		c.Favorites[n] = name
	}
}

// FavoriteNumber returns the favorite number (1-9) for a slideshow name,
// or 0 if not favorited.
func (c Config) FavoriteNumber(name string) int {
	for n, fav := range c.Favorites {
		if strings.EqualFold(fav, name) {
			return n
		}
	}
	return 0
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
