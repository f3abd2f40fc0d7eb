package platform

import "errors"

// ErrNoPointerPress is returned by StartDrag when no pointer button is held,
// for example after a quick click was already released.
var ErrNoPointerPress = errors.New("no pointer button is pressed")

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Display describes a physical display and its usable work area.
type Display struct {
	ID     int
	Name   string
	Bounds Rect
	Usable Rect
}

// WindowOptions describes the main window created at startup.
type WindowOptions struct {
	Title       string
	Class       string
	Width       int
	Height      int
	Decorations bool
}

// Backend abstracts the window-system operations the shell needs.
type Backend interface {
	// DisplayForWindow returns the display the window is on; ok is false when
	// the window is not on any display.
	DisplayForWindow(id WindowID) (d Display, ok bool, err error)
	// OuterSize returns the window size including decoration.
	OuterSize(id WindowID) (width, height int, err error)
	Move(id WindowID, x, y int) error
	// StartDrag hands an interactive move of the window to the window manager.
	StartDrag(id WindowID) error
}

// Toolkit is a Backend that can also create windows and drive an event loop.
type Toolkit interface {
	Backend
	CreateWindow(opts WindowOptions) (WindowID, error)
	Focus(id WindowID) error
	// PinToAllDesktops shows the window on every virtual desktop.
	PinToAllDesktops(id WindowID) error
	// BindHotkey runs fn whenever keySequence is pressed anywhere.
	BindHotkey(keySequence string, fn func()) error
	OnPointerDown(id WindowID, fn func(button, x, y int))
	// OnMapped runs fn on the event loop each time the window is mapped. The
	// window manager has framed the window by then.
	OnMapped(id WindowID, fn func())
	OnClose(id WindowID, fn func())
	EventLoop()
	Quit()
	Disconnect()
}
