package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// applyDefaults seeds Viper with defaults defined in GetConfigOptions.
// This centralizes default values and descriptions in one place.
func applyDefaults(v *viper.Viper) {
	for _, o := range GetConfigOptions() {
		v.SetDefault(o.Key, o.Default)
	}
}

// Load resolves configuration with precedence: defaults < file < env.
// The provided Viper instance is mutated with defaults, file contents, and env.
func Load(ctx context.Context, v *viper.Viper) error {
	// If SetConfigFile was provided upstream it takes precedence;
	// these paths are harmless fallbacks.
	if v.ConfigFileUsed() == "" {
		v.SetConfigName("config")
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, "tutor"))
		}
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "tutor"))
		}
		v.AddConfigPath(".")
	}

	applyDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine; a broken one is not.
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	// Environment variables: TUTOR_* (highest among these sources)
	v.SetEnvPrefix("tutor")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if v.GetString("data_dir") == "" {
		v.Set("data_dir", defaultDataDir())
	}
	if strings.TrimSpace(v.GetString("backend.api_version")) == "" {
		v.Set("backend.api_version", "v1")
	}
	v.Set("backend.url", strings.TrimRight(v.GetString("backend.url"), "/"))
	return nil
}

// defaultDataDir resolves default data dir: $XDG_DATA_HOME/tutor or ~/.local/share/tutor
func defaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "tutor")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "tutor")
}

// DefaultConfigPath resolves the standard config.toml location.
func DefaultConfigPath() string {
	xdg := os.Getenv("XDG_CONFIG_HOME")
	if xdg == "" {
		home, _ := os.UserHomeDir()
		xdg = filepath.Join(home, ".config")
	}
	return filepath.Join(xdg, "tutor", "config.toml")
}

type ConfigOption struct {
	Key     string
	Default any
	Comment string
}

// GetConfigOptions returns the default configuration options and their meanings.
func GetConfigOptions() []ConfigOption {
	return []ConfigOption{
		{Key: "data_dir", Default: defaultDataDir(), Comment: "Directory for local state; drafts live in data_dir/tutor.db"},
		{Key: "db_url", Default: "", Comment: "Drafts store DSN (sqlite://path or mem://); empty means data_dir/tutor.db"},
		{Key: "http_addr", Default: "127.0.0.1:8090", Comment: "Listen address for `tutor serve`"},

		{Key: "backend.url", Default: "http://localhost:8000", Comment: "Base URL of the content-generation backend"},
		{Key: "backend.api_version", Default: "v1", Comment: "Backend API version used for generation (v1|v2)"},
		{Key: "backend.timeout_seconds", Default: 90, Comment: "Per-request timeout; generation can be slow"},
		{Key: "backend.token", Default: "", Comment: "Optional bearer token sent to the backend"},

		{Key: "render.engine", Default: "staged", Comment: "Lesson renderer: staged (paragraph/heading/list/bold rules) or markdown"},
		{Key: "render.sanitize", Default: true, Comment: "Strip HTML outside the lesson subset before it reaches a page"},
		{Key: "render.width", Default: 80, Comment: "Word wrap for terminal previews"},

		{Key: "session.idle_minutes", Default: 120, Comment: "Studio sessions idle longer than this are dropped from memory"},
		{Key: "drafts.page_size", Default: 50, Comment: "Default number of drafts listed"},

		{Key: "log.level", Default: "info", Comment: "debug|info|warn|error"},
		{Key: "log.format", Default: "console", Comment: "console|json"},
	}
}

// ResolveDBPath uses data_dir to return the sqlite DB file path.
func ResolveDBPath(v *viper.Viper) string {
	dir := v.GetString("data_dir")
	if dir == "" {
		dir = defaultDataDir()
	}
	// Expand ~ for convenience
	if len(dir) > 0 && dir[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, dir[1:])
		}
	}
	return filepath.Join(dir, "tutor.db")
}
