// Package plugins provides the auxiliary capabilities the shell exposes to
// its content layer next to start_drag: opening external resources and
// clipboard access.
package plugins

import (
	"fmt"
	"log/slog"

	"github.com/1broseidon/shellwin/internal/command"
	"github.com/1broseidon/shellwin/internal/config"
)

// RegisterEnabled registers every plugin enabled in cfg on d and returns the
// names of the registered plugins.
func RegisterEnabled(d *command.Dispatcher, cfg config.PluginsConfig, clip ClipboardBackend, logger *slog.Logger) ([]string, error) {
	var enabled []string

	if cfg.OpenerEnabled() {
		opener, err := NewOpener(cfg.Opener.Command, logger)
		if err != nil {
			return nil, err
		}
		if err := opener.Register(d); err != nil {
			return nil, fmt.Errorf("failed to register opener: %w", err)
		}
		enabled = append(enabled, "opener")
	}

	if cfg.ClipboardEnabled() {
		if err := NewClipboard(clip).Register(d); err != nil {
			return nil, fmt.Errorf("failed to register clipboard: %w", err)
		}
		enabled = append(enabled, "clipboard")
	}

	return enabled, nil
}
