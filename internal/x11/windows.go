package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// FrameExtents are the decoration sizes the window manager draws around a
// client window.
type FrameExtents struct {
	Left, Right, Top, Bottom int
}

// GetFrameExtents returns the window decoration sizes. Windows without
// _NET_FRAME_EXTENTS (undecorated, or no EWMH window manager) report zeros.
func (c *Connection) GetFrameExtents(win xproto.Window) FrameExtents {
	extents, err := ewmh.FrameExtentsGet(c.XUtil, win)
	if err != nil {
		return FrameExtents{}
	}
	return FrameExtents{
		Left:   int(extents.Left),
		Right:  int(extents.Right),
		Top:    int(extents.Top),
		Bottom: int(extents.Bottom),
	}
}

// ClientRect returns the client area of a window in root coordinates.
func (c *Connection) ClientRect(win xproto.Window) (Rect, error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(win)).Reply()
	if err != nil {
		return Rect{}, fmt.Errorf("failed to get geometry of window 0x%x: %w", uint32(win), err)
	}

	translate, err := xproto.TranslateCoordinates(c.XUtil.Conn(), win, c.Root, 0, 0).Reply()
	if err != nil {
		return Rect{}, fmt.Errorf("failed to translate coordinates of window 0x%x: %w", uint32(win), err)
	}

	return Rect{
		X:      int(translate.DstX),
		Y:      int(translate.DstY),
		Width:  int(geom.Width),
		Height: int(geom.Height),
	}, nil
}

// WindowRect returns the outer rectangle of a window, including decoration.
func (c *Connection) WindowRect(win xproto.Window) (Rect, error) {
	client, err := c.ClientRect(win)
	if err != nil {
		return Rect{}, err
	}
	fe := c.GetFrameExtents(win)
	return Rect{
		X:      client.X - fe.Left,
		Y:      client.Y - fe.Top,
		Width:  client.Width + fe.Left + fe.Right,
		Height: client.Height + fe.Top + fe.Bottom,
	}, nil
}

// OuterSize returns the window size including decoration.
func (c *Connection) OuterSize(win xproto.Window) (width, height int, err error) {
	r, err := c.WindowRect(win)
	if err != nil {
		return 0, 0, err
	}
	return r.Width, r.Height, nil
}

// MoveWindow moves a window's top-left corner to (x, y) in root coordinates.
// The request is checked so callers learn about BadWindow and friends.
func (c *Connection) MoveWindow(win xproto.Window, x, y int) error {
	err := xproto.ConfigureWindowChecked(
		c.XUtil.Conn(),
		win,
		xproto.ConfigWindowX|xproto.ConfigWindowY,
		[]uint32{uint32(int32(x)), uint32(int32(y))},
	).Check()
	if err != nil {
		return fmt.Errorf("failed to move window 0x%x to %d,%d: %w", uint32(win), x, y, err)
	}
	return nil
}

// FocusWindow activates and raises a window using _NET_ACTIVE_WINDOW.
func (c *Connection) FocusWindow(win xproto.Window) error {
	atom, err := c.internAtom("_NET_ACTIVE_WINDOW")
	if err != nil {
		return err
	}

	const sourceIndication = 1 // application
	return c.sendRootMessage(win, atom, []uint32{sourceIndication, 0, 0, 0, 0})
}

// sendRootMessage sends an EWMH client message about win to the root window.
// Messages are built by hand; some xgbutil ewmh request helpers panic on
// this library version (uint vs int type assertion).
func (c *Connection) sendRootMessage(win xproto.Window, atom xproto.Atom, data []uint32) error {
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: win,
		Type:   atom,
		Data:   xproto.ClientMessageDataUnionData32New(data),
	}

	return xproto.SendEventChecked(
		c.XUtil.Conn(),
		false,
		c.Root,
		xproto.EventMaskSubstructureRedirect|xproto.EventMaskSubstructureNotify,
		string(ev.Bytes()),
	).Check()
}
