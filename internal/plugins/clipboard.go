package plugins

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/atotto/clipboard"

	"github.com/1broseidon/shellwin/internal/command"
)

const (
	ClipboardRead  = "clipboard_read"
	ClipboardWrite = "clipboard_write"
)

// ErrClipboardUnsupported is returned when no clipboard utility (xclip,
// xsel, wl-copy) is installed.
var ErrClipboardUnsupported = errors.New("clipboard is not supported: install xclip, xsel or wl-clipboard")

// ClipboardText is the payload of clipboard_write and the result of
// clipboard_read.
type ClipboardText struct {
	Text string `json:"text"`
}

// ClipboardBackend reads and writes the system clipboard.
type ClipboardBackend interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

type systemClipboard struct{}

func (systemClipboard) ReadAll() (string, error) {
	if clipboard.Unsupported {
		return "", ErrClipboardUnsupported
	}
	return clipboard.ReadAll()
}

func (systemClipboard) WriteAll(text string) error {
	if clipboard.Unsupported {
		return ErrClipboardUnsupported
	}
	return clipboard.WriteAll(text)
}

// SystemClipboard returns the clipboard of the running desktop session.
func SystemClipboard() ClipboardBackend {
	return systemClipboard{}
}

// Clipboard exposes clipboard access to the content layer.
type Clipboard struct {
	backend ClipboardBackend
}

func NewClipboard(backend ClipboardBackend) *Clipboard {
	if backend == nil {
		backend = SystemClipboard()
	}
	return &Clipboard{backend: backend}
}

func (c *Clipboard) Read() (string, error) {
	text, err := c.backend.ReadAll()
	if err != nil {
		return "", fmt.Errorf("failed to read clipboard: %w", err)
	}
	return text, nil
}

func (c *Clipboard) Write(text string) error {
	if err := c.backend.WriteAll(text); err != nil {
		return fmt.Errorf("failed to write clipboard: %w", err)
	}
	return nil
}

// Register exposes clipboard_read and clipboard_write.
func (c *Clipboard) Register(d *command.Dispatcher) error {
	err := d.Register(ClipboardRead, func(context.Context, json.RawMessage) (any, error) {
		text, err := c.Read()
		if err != nil {
			return nil, err
		}
		return ClipboardText{Text: text}, nil
	})
	if err != nil {
		return err
	}

	return d.Register(ClipboardWrite, func(_ context.Context, payload json.RawMessage) (any, error) {
		var p ClipboardText
		if err := decodePayload(payload, &p); err != nil {
			return nil, err
		}
		return nil, c.Write(p.Text)
	})
}
