package x11

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

var (
	// ErrNoPointerPress is returned when a drag is requested while no pointer
	// button is held down.
	ErrNoPointerPress = errors.New("no pointer button is pressed")
	// ErrMoveResizeUnsupported is returned when the window manager does not
	// advertise _NET_WM_MOVERESIZE.
	ErrMoveResizeUnsupported = errors.New("window manager does not support _NET_WM_MOVERESIZE")
)

// _NET_WM_MOVERESIZE directions and source indication.
const (
	moveResizeMove    = 8
	sourceApplication = 1
)

var buttonMasks = [...]uint16{
	xproto.KeyButMaskButton1,
	xproto.KeyButMaskButton2,
	xproto.KeyButMaskButton3,
	xproto.KeyButMaskButton4,
	xproto.KeyButMaskButton5,
}

// pressedButton returns the lowest pressed pointer button (1-5) in a
// key/button mask, or 0 when none is pressed.
func pressedButton(mask uint16) int {
	for i, m := range buttonMasks {
		if mask&m != 0 {
			return i + 1
		}
	}
	return 0
}

// StartMoveDrag hands an interactive move of win to the window manager. The
// pointer must be pressed; the window manager tracks it until release.
func (c *Connection) StartMoveDrag(win xproto.Window) error {
	ptr, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return fmt.Errorf("failed to query pointer: %w", err)
	}
	if !ptr.SameScreen {
		return fmt.Errorf("pointer is not on the window's screen")
	}
	button := pressedButton(ptr.Mask)
	if button == 0 {
		return ErrNoPointerPress
	}

	if err := c.requireMoveResize(); err != nil {
		return err
	}

	atom, err := c.internAtom("_NET_WM_MOVERESIZE")
	if err != nil {
		return err
	}

	// The press that triggered the drag holds an implicit grab; the window
	// manager cannot take the pointer until it is released.
	if err := xproto.UngrabPointerChecked(c.XUtil.Conn(), xproto.TimeCurrentTime).Check(); err != nil {
		return fmt.Errorf("failed to release pointer grab: %w", err)
	}

	return c.sendRootMessage(win, atom, []uint32{
		uint32(int32(ptr.RootX)),
		uint32(int32(ptr.RootY)),
		moveResizeMove,
		uint32(button),
		sourceApplication,
	})
}

func (c *Connection) requireMoveResize() error {
	supported, err := ewmh.SupportedGet(c.XUtil)
	if err != nil {
		return fmt.Errorf("no EWMH window manager: %w", err)
	}
	for _, s := range supported {
		if s == "_NET_WM_MOVERESIZE" {
			return nil
		}
	}
	return ErrMoveResizeUnsupported
}
