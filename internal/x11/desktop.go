package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// AllDesktops is the _NET_WM_DESKTOP value of a window shown on every
// virtual desktop.
const AllDesktops uint32 = 0xFFFFFFFF

// CurrentDesktop returns the current virtual desktop number (0-indexed).
func (c *Connection) CurrentDesktop() (int, error) {
	desktop, err := ewmh.CurrentDesktopGet(c.XUtil)
	if err != nil {
		return 0, fmt.Errorf("failed to get current desktop: %w", err)
	}
	return int(desktop), nil
}

// SetWindowDesktop asks the window manager to move a mapped window to
// desktop via a _NET_WM_DESKTOP client message.
func (c *Connection) SetWindowDesktop(win xproto.Window, desktop uint32) error {
	atom, err := c.internAtom("_NET_WM_DESKTOP")
	if err != nil {
		return err
	}

	const sourceIndication = 1 // application
	if err := c.sendRootMessage(win, atom, []uint32{desktop, sourceIndication, 0, 0, 0}); err != nil {
		return fmt.Errorf("failed to set desktop of window 0x%x: %w", uint32(win), err)
	}
	return nil
}

// PinToAllDesktops keeps the window visible when the user switches desktops.
func (c *Connection) PinToAllDesktops(win xproto.Window) error {
	return c.SetWindowDesktop(win, AllDesktops)
}
