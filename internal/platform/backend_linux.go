//go:build linux

package platform

import (
	"errors"
	"fmt"
	"sync"

	"github.com/1broseidon/shellwin/internal/hotkeys"
	"github.com/1broseidon/shellwin/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
)

// LinuxBackend wraps an X11 connection behind the platform Toolkit interface.
type LinuxBackend struct {
	conn *x11.Connection

	hotkeysOnce sync.Once
	hotkeys     *hotkeys.Handler
}

var _ Toolkit = (*LinuxBackend)(nil)

// NewLinuxBackendFromDisplay opens a fresh X11 connection ("" uses $DISPLAY).
func NewLinuxBackendFromDisplay(display string) (*LinuxBackend, error) {
	conn, err := x11.NewConnectionDisplay(display)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &LinuxBackend{conn: conn}, nil
}

// NewToolkit opens the native toolkit for this platform.
func NewToolkit(display string) (Toolkit, error) {
	return NewLinuxBackendFromDisplay(display)
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// EventLoop starts the X11 event loop (blocking).
func (b *LinuxBackend) EventLoop() {
	if b != nil && b.conn != nil {
		b.conn.EventLoop()
	}
}

// Quit stops the event loop.
func (b *LinuxBackend) Quit() {
	if b != nil && b.conn != nil {
		b.conn.Quit()
	}
}

// DisplayForWindow returns the display containing the window's center.
func (b *LinuxBackend) DisplayForWindow(id WindowID) (Display, bool, error) {
	conn, err := b.connection()
	if err != nil {
		return Display{}, false, err
	}

	mon, err := conn.MonitorForWindow(xproto.Window(id))
	if err != nil {
		return Display{}, false, err
	}
	if mon == nil {
		return Display{}, false, nil
	}
	return displayFromMonitor(*mon), true, nil
}

// OuterSize returns the window size including frame extents.
func (b *LinuxBackend) OuterSize(id WindowID) (int, int, error) {
	conn, err := b.connection()
	if err != nil {
		return 0, 0, err
	}
	return conn.OuterSize(xproto.Window(id))
}

// Move moves the window's top-left corner.
func (b *LinuxBackend) Move(id WindowID, x, y int) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.MoveWindow(xproto.Window(id), x, y)
}

// StartDrag starts a window-manager move via _NET_WM_MOVERESIZE.
func (b *LinuxBackend) StartDrag(id WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	err = conn.StartMoveDrag(xproto.Window(id))
	if errors.Is(err, x11.ErrNoPointerPress) {
		return ErrNoPointerPress
	}
	return err
}

// CreateWindow creates and maps a top-level window.
func (b *LinuxBackend) CreateWindow(opts WindowOptions) (WindowID, error) {
	conn, err := b.connection()
	if err != nil {
		return 0, err
	}
	win, err := conn.CreateWindow(x11.WindowOptions{
		Title:       opts.Title,
		Class:       opts.Class,
		Width:       opts.Width,
		Height:      opts.Height,
		Decorations: opts.Decorations,
	})
	if err != nil {
		return 0, err
	}
	return WindowID(win), nil
}

// Focus activates and raises the window.
func (b *LinuxBackend) Focus(id WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.FocusWindow(xproto.Window(id))
}

// PinToAllDesktops shows the window on every virtual desktop.
func (b *LinuxBackend) PinToAllDesktops(id WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.PinToAllDesktops(xproto.Window(id))
}

// BindHotkey grabs keySequence on the root window.
func (b *LinuxBackend) BindHotkey(keySequence string, fn func()) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	b.hotkeysOnce.Do(func() {
		b.hotkeys = hotkeys.NewHandler(conn.XUtil, conn.Root)
	})
	return b.hotkeys.RegisterFunc(keySequence, fn)
}

// OnPointerDown registers fn for pointer presses inside the window.
func (b *LinuxBackend) OnPointerDown(id WindowID, fn func(button, x, y int)) {
	if conn, err := b.connection(); err == nil {
		conn.OnButtonPress(xproto.Window(id), fn)
	}
}

// OnMapped registers fn for MapNotify on the window.
func (b *LinuxBackend) OnMapped(id WindowID, fn func()) {
	if conn, err := b.connection(); err == nil {
		conn.OnMapped(xproto.Window(id), fn)
	}
}

// OnClose registers fn for window close requests.
func (b *LinuxBackend) OnClose(id WindowID, fn func()) {
	if conn, err := b.connection(); err == nil {
		conn.OnClose(xproto.Window(id), fn)
	}
}

func (b *LinuxBackend) connection() (*x11.Connection, error) {
	if b == nil || b.conn == nil {
		return nil, fmt.Errorf("x11 backend connection is nil")
	}
	return b.conn, nil
}

func displayFromMonitor(m x11.Monitor) Display {
	return Display{
		ID:     m.ID,
		Name:   m.Name,
		Bounds: Rect(m.Bounds),
		Usable: Rect(m.Usable),
	}
}
