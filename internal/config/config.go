package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/shellwin/internal/placement"
)

const (
	DefaultWindowLabel    = "main"
	DefaultTitleBarHeight = 28
	DefaultOpenerCommand  = "xdg-open"
)

// WindowConfig describes the main window created at startup.
type WindowConfig struct {
	Label  string `yaml:"label"`
	Title  string `yaml:"title"`
	Class  string `yaml:"class"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	// Decorations keeps the window manager's title bar. The default is an
	// undecorated window dragged by its own title-bar region.
	Decorations bool `yaml:"decorations"`
	// AllDesktops pins the window to every virtual desktop.
	AllDesktops bool `yaml:"all_desktops"`
	// FocusHotkey is a global key sequence such as "Mod4-grave" that raises
	// the window. Empty disables it.
	FocusHotkey string `yaml:"focus_hotkey,omitempty"`
}

// PlacementConfig controls the one-time startup placement.
type PlacementConfig struct {
	Enabled        *bool `yaml:"enabled,omitempty"`
	BottomMargin   int   `yaml:"bottom_margin"`
	FallbackWidth  int   `yaml:"fallback_width"`
	FallbackHeight int   `yaml:"fallback_height"`
}

// DragConfig controls which pointer presses inside the window start a drag.
type DragConfig struct {
	// TitleBarHeight is the height of the region at the top of the window
	// that starts a drag on pointer-down. 0 disables the built-in binding.
	TitleBarHeight int `yaml:"title_bar_height"`
	// Button is the pointer button (1-5) that starts a drag.
	Button int `yaml:"button"`
}

type OpenerConfig struct {
	Enabled *bool  `yaml:"enabled,omitempty"`
	Command string `yaml:"command"`
}

type ClipboardConfig struct {
	Enabled *bool `yaml:"enabled,omitempty"`
}

// PluginsConfig toggles the auxiliary capabilities exposed to the content layer.
type PluginsConfig struct {
	Opener    OpenerConfig    `yaml:"opener"`
	Clipboard ClipboardConfig `yaml:"clipboard"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	// Level controls verbosity: debug, info, warn, error
	Level string `yaml:"level,omitempty"`
	// Format is "text" (default) or "json"
	Format string `yaml:"format,omitempty"`
}

// Config is the full shellwin configuration.
type Config struct {
	Window    WindowConfig    `yaml:"window"`
	Placement PlacementConfig `yaml:"placement"`
	Drag      DragConfig      `yaml:"drag"`
	Plugins   PluginsConfig   `yaml:"plugins"`
	Logging   LoggingConfig   `yaml:"logging"`

	// path is the file this config was loaded from (empty for defaults).
	path string
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	params := placement.DefaultParams()
	return &Config{
		Window: WindowConfig{
			Label:  DefaultWindowLabel,
			Title:  "shellwin",
			Class:  "shellwin",
			Width:  params.FallbackSize.Width,
			Height: params.FallbackSize.Height,
		},
		Placement: PlacementConfig{
			BottomMargin:   params.BottomMargin,
			FallbackWidth:  params.FallbackSize.Width,
			FallbackHeight: params.FallbackSize.Height,
		},
		Drag: DragConfig{
			TitleBarHeight: DefaultTitleBarHeight,
			Button:         1,
		},
		Plugins: PluginsConfig{
			Opener: OpenerConfig{Command: DefaultOpenerCommand},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// PlacementEnabled returns the effective value, defaulting to true.
func (p PlacementConfig) PlacementEnabled() bool {
	if p.Enabled == nil {
		return true
	}
	return *p.Enabled
}

// OpenerEnabled returns the effective value, defaulting to true.
func (p PluginsConfig) OpenerEnabled() bool {
	if p.Opener.Enabled == nil {
		return true
	}
	return *p.Opener.Enabled
}

// ClipboardEnabled returns the effective value, defaulting to true.
func (p PluginsConfig) ClipboardEnabled() bool {
	if p.Clipboard.Enabled == nil {
		return true
	}
	return *p.Clipboard.Enabled
}

// Path returns the file the config was loaded from, if any.
func (c *Config) Path() string {
	return c.path
}

// Validate checks the configuration for values that cannot be used.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Window.Label) == "" {
		return fmt.Errorf("window.label must not be empty")
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Placement.BottomMargin < 0 {
		return fmt.Errorf("placement.bottom_margin must be >= 0, got %d", c.Placement.BottomMargin)
	}
	if c.Placement.FallbackWidth <= 0 || c.Placement.FallbackHeight <= 0 {
		return fmt.Errorf("placement fallback size must be positive, got %dx%d",
			c.Placement.FallbackWidth, c.Placement.FallbackHeight)
	}
	if c.Drag.TitleBarHeight < 0 {
		return fmt.Errorf("drag.title_bar_height must be >= 0, got %d", c.Drag.TitleBarHeight)
	}
	if c.Drag.Button < 1 || c.Drag.Button > 5 {
		return fmt.Errorf("drag.button must be between 1 and 5, got %d", c.Drag.Button)
	}
	if c.Plugins.OpenerEnabled() && strings.TrimSpace(c.Plugins.Opener.Command) == "" {
		return fmt.Errorf("plugins.opener.command must not be empty when the opener is enabled")
	}
	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("logging.format %q is not one of text, json", c.Logging.Format)
	}
	return nil
}

// Marshal renders the config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Save writes the config to its source path, or the default path when it was
// built from defaults.
func (c *Config) Save() error {
	path := c.path
	if path == "" {
		p, err := DefaultConfigPath()
		if err != nil {
			return err
		}
		path = p
	}

	data, err := c.Marshal()
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	c.path = path
	return nil
}

// SlogLevel maps the configured level to a slog level, defaulting to info.
func (l LoggingConfig) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds the process logger described by the config.
func (l LoggingConfig) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: l.SlogLevel()}
	if strings.EqualFold(l.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
