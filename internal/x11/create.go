package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/motif"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// WindowOptions describes a top-level window to create.
type WindowOptions struct {
	Title       string
	Class       string
	Width       int
	Height      int
	Decorations bool
}

const windowEventMask = xproto.EventMaskButtonPress |
	xproto.EventMaskButtonRelease |
	xproto.EventMaskStructureNotify |
	xproto.EventMaskExposure

// CreateWindow creates and maps a top-level window. It is created at the
// origin and the window manager may pick another position, so callers that
// move it should wait for OnMapped.
func (c *Connection) CreateWindow(opts WindowOptions) (xproto.Window, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return 0, fmt.Errorf("invalid window size %dx%d", opts.Width, opts.Height)
	}

	win, err := xwindow.Generate(c.XUtil)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate window id: %w", err)
	}

	err = win.CreateChecked(c.Root, 0, 0, opts.Width, opts.Height,
		xproto.CwBackPixel|xproto.CwEventMask,
		c.XUtil.Screen().BlackPixel, windowEventMask)
	if err != nil {
		return 0, fmt.Errorf("failed to create window: %w", err)
	}

	if err := ewmh.WmNameSet(c.XUtil, win.Id, opts.Title); err != nil {
		return 0, fmt.Errorf("failed to set _NET_WM_NAME: %w", err)
	}
	if err := icccm.WmNameSet(c.XUtil, win.Id, opts.Title); err != nil {
		return 0, fmt.Errorf("failed to set WM_NAME: %w", err)
	}
	if err := icccm.WmClassSet(c.XUtil, win.Id, &icccm.WmClass{
		Instance: opts.Class,
		Class:    opts.Class,
	}); err != nil {
		return 0, fmt.Errorf("failed to set WM_CLASS: %w", err)
	}
	if err := icccm.WmProtocolsSet(c.XUtil, win.Id, []string{"WM_DELETE_WINDOW"}); err != nil {
		return 0, fmt.Errorf("failed to set WM_PROTOCOLS: %w", err)
	}

	if !opts.Decorations {
		hints := &motif.Hints{
			Flags:      motif.HintDecorations,
			Decoration: motif.DecorationNone,
		}
		if err := motif.WmHintsSet(c.XUtil, win.Id, hints); err != nil {
			return 0, fmt.Errorf("failed to set _MOTIF_WM_HINTS: %w", err)
		}
	}

	win.Map()
	return win.Id, nil
}

// OnButtonPress calls fn for every pointer press inside win, with the button
// number and window-relative coordinates. Callbacks run on the event loop.
func (c *Connection) OnButtonPress(win xproto.Window, fn func(button, x, y int)) {
	xevent.ButtonPressFun(func(_ *xgbutil.XUtil, ev xevent.ButtonPressEvent) {
		fn(int(ev.Detail), int(ev.EventX), int(ev.EventY))
	}).Connect(c.XUtil, win)
}

// OnMapped calls fn for every MapNotify on win. A reparenting window manager
// maps the client after its frame exists, so frame extents are valid here.
func (c *Connection) OnMapped(win xproto.Window, fn func()) {
	xevent.MapNotifyFun(func(_ *xgbutil.XUtil, _ xevent.MapNotifyEvent) {
		fn()
	}).Connect(c.XUtil, win)
}

// OnClose calls fn when the window manager asks win to close
// (WM_DELETE_WINDOW) or when win is destroyed.
func (c *Connection) OnClose(win xproto.Window, fn func()) {
	xevent.ClientMessageFun(func(xu *xgbutil.XUtil, ev xevent.ClientMessageEvent) {
		if ev.Format != 32 || len(ev.Data.Data32) == 0 {
			return
		}
		typ, err := xprop.AtomName(xu, ev.Type)
		if err != nil || typ != "WM_PROTOCOLS" {
			return
		}
		proto, err := xprop.AtomName(xu, xproto.Atom(ev.Data.Data32[0]))
		if err != nil || proto != "WM_DELETE_WINDOW" {
			return
		}
		fn()
	}).Connect(c.XUtil, win)

	xevent.DestroyNotifyFun(func(_ *xgbutil.XUtil, _ xevent.DestroyNotifyEvent) {
		fn()
	}).Connect(c.XUtil, win)
}
