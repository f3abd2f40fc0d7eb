package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/1broseidon/shellwin/internal/placement"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() error: %v", err)
	}
	if cfg.Placement.BottomMargin != 60 {
		t.Fatalf("BottomMargin = %d, want 60", cfg.Placement.BottomMargin)
	}
	if cfg.Placement.FallbackWidth != 400 || cfg.Placement.FallbackHeight != 280 {
		t.Fatalf("fallback = %dx%d, want 400x280", cfg.Placement.FallbackWidth, cfg.Placement.FallbackHeight)
	}
	if !cfg.Placement.PlacementEnabled() {
		t.Fatal("placement should default to enabled")
	}
	if !cfg.Plugins.OpenerEnabled() || !cfg.Plugins.ClipboardEnabled() {
		t.Fatal("plugins should default to enabled")
	}
}

func TestLoadFromPath_MissingFileReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.yaml")

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}
	if cfg.Window.Label != DefaultWindowLabel {
		t.Fatalf("Window.Label = %q, want %q", cfg.Window.Label, DefaultWindowLabel)
	}
	if cfg.Path() != "" {
		t.Fatalf("Path() = %q, want empty for defaults", cfg.Path())
	}
}

func TestLoadFromPath_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
window:
  title: "clip"
placement:
  enabled: false
  bottom_margin: 12
drag:
  title_bar_height: 40
plugins:
  clipboard:
    enabled: false
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}
	if cfg.Window.Title != "clip" {
		t.Fatalf("Window.Title = %q, want clip", cfg.Window.Title)
	}
	// Untouched fields keep their defaults.
	if cfg.Window.Width != placement.DefaultFallbackWidth {
		t.Fatalf("Window.Width = %d, want %d", cfg.Window.Width, placement.DefaultFallbackWidth)
	}
	if cfg.Placement.PlacementEnabled() {
		t.Fatal("placement should be disabled")
	}
	if cfg.Placement.BottomMargin != 12 {
		t.Fatalf("BottomMargin = %d, want 12", cfg.Placement.BottomMargin)
	}
	if cfg.Drag.TitleBarHeight != 40 {
		t.Fatalf("TitleBarHeight = %d, want 40", cfg.Drag.TitleBarHeight)
	}
	if cfg.Plugins.ClipboardEnabled() {
		t.Fatal("clipboard should be disabled")
	}
	if cfg.Path() != path {
		t.Fatalf("Path() = %q, want %q", cfg.Path(), path)
	}
}

func TestLoadFromPath_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromPath(path); err != nil {
		t.Fatalf("LoadFromPath() on empty file error: %v", err)
	}
}

func TestLoadFromPath_RejectsUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("placement:\n  bottom_margn: 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatal("expected error for unknown field")
	}
	if !strings.Contains(err.Error(), path) {
		t.Fatalf("error %q should mention the file path", err)
	}
}

func TestParse_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"negative margin", "placement:\n  bottom_margin: -1\n", "bottom_margin"},
		{"zero fallback", "placement:\n  fallback_width: 0\n", "fallback"},
		{"bad button", "drag:\n  button: 9\n", "drag.button"},
		{"empty label", "window:\n  label: \"\"\n", "window.label"},
		{"bad level", "logging:\n  level: loud\n", "logging.level"},
		{"empty opener", "plugins:\n  opener:\n    command: \"\"\n", "opener.command"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatalf("expected error containing %q", tt.want)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error = %q, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestParse_DisabledOpenerAllowsEmptyCommand(t *testing.T) {
	_, err := Parse([]byte("plugins:\n  opener:\n    enabled: false\n    command: \"\"\n"))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
}

func TestSaveRoundTripsThroughLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	t.Setenv(EnvConfigPath, path)

	cfg := DefaultConfig()
	cfg.Placement.BottomMargin = 90
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.Placement.BottomMargin != 90 {
		t.Fatalf("BottomMargin = %d, want 90", loaded.Placement.BottomMargin)
	}
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shellwin", "config.yaml")

	cfg, err := Init(path, false)
	if err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	if cfg.Path() != path {
		t.Fatalf("Path() = %q, want %q", cfg.Path(), path)
	}
	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}
	if loaded.Placement.BottomMargin != placement.DefaultBottomMargin {
		t.Fatalf("BottomMargin = %d, want %d", loaded.Placement.BottomMargin, placement.DefaultBottomMargin)
	}

	if _, err := Init(path, false); err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("second Init() error = %v, want already exists", err)
	}
	if _, err := Init(path, true); err != nil {
		t.Fatalf("Init(force) error: %v", err)
	}
}

func TestLoggingConfigSlogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got := LoggingConfig{Level: tt.level}.SlogLevel()
		if got != tt.want {
			t.Errorf("SlogLevel(%q) = %v, want %v", tt.level, got, tt.want)
		}
	}
}
