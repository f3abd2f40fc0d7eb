// Package platformtest provides an in-memory platform.Toolkit for tests.
package platformtest

import (
	"errors"
	"fmt"
	"sync"

	"github.com/1broseidon/shellwin/internal/platform"
)

// ErrNoPointerPress is what StartDrag returns without a held button.
var ErrNoPointerPress = platform.ErrNoPointerPress

type window struct {
	opts    platform.WindowOptions
	bounds  platform.Rect
	sizeErr error
	mapped  bool
	pointer []func(button, x, y int)
	onMap   []func()
	close   []func()
}

// Toolkit is an in-memory window system. Windows are created at the origin
// of the first display.
type Toolkit struct {
	mu sync.Mutex

	DisplayList []platform.Display
	// Detached makes DisplayForWindow report no display.
	Detached bool
	// MoveErr is returned by Move without moving the window.
	MoveErr error
	// CreateErr is returned by CreateWindow.
	CreateErr error
	// PointerDown simulates a held pointer button.
	PointerDown bool
	// DragErr overrides the StartDrag result while the pointer is down.
	DragErr error
	// DeferMap leaves created windows unmapped until Map is called.
	DeferMap bool
	// Disconnected is set by Disconnect.
	Disconnected bool

	Moves     int
	Drags     int
	Focused   platform.WindowID
	Pinned    map[platform.WindowID]bool
	hotkeys   map[string]func()
	Quitted   bool
	windows   map[platform.WindowID]*window
	nextID    platform.WindowID
	loopDone  chan struct{}
	loopStart chan struct{}
}

var _ platform.Toolkit = (*Toolkit)(nil)

// New returns a toolkit with a single display of the given size.
func New(width, height int) *Toolkit {
	full := platform.Rect{Width: width, Height: height}
	return &Toolkit{
		DisplayList: []platform.Display{{ID: 0, Name: "FAKE-0", Bounds: full, Usable: full}},
		windows:     make(map[platform.WindowID]*window),
		Pinned:      make(map[platform.WindowID]bool),
		hotkeys:     make(map[string]func()),
		nextID:      0x400001,
		loopDone:    make(chan struct{}),
		loopStart:   make(chan struct{}),
	}
}

// AddWindow registers an existing window with the given bounds.
func (t *Toolkit) AddWindow(bounds platform.Rect) platform.WindowID {
	t.mu.Lock()
	defer t.mu.Unlock()
	id := t.nextID
	t.nextID++
	t.windows[id] = &window{bounds: bounds, mapped: true}
	return id
}

// SetSizeErr makes OuterSize fail for id.
func (t *Toolkit) SetSizeErr(id platform.WindowID, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if w, ok := t.windows[id]; ok {
		w.sizeErr = err
	}
}

// Bounds returns the current bounds of id.
func (t *Toolkit) Bounds(id platform.WindowID) platform.Rect {
	t.mu.Lock()
	defer t.mu.Unlock()
	if w, ok := t.windows[id]; ok {
		return w.bounds
	}
	return platform.Rect{}
}

// Options returns the options id was created with.
func (t *Toolkit) Options(id platform.WindowID) platform.WindowOptions {
	t.mu.Lock()
	defer t.mu.Unlock()
	if w, ok := t.windows[id]; ok {
		return w.opts
	}
	return platform.WindowOptions{}
}

// Press simulates a pointer press inside id, invoking registered callbacks.
func (t *Toolkit) Press(id platform.WindowID, button, x, y int) {
	t.mu.Lock()
	w, ok := t.windows[id]
	var fns []func(button, x, y int)
	if ok {
		fns = append(fns, w.pointer...)
	}
	t.PointerDown = true
	t.mu.Unlock()

	for _, fn := range fns {
		fn(button, x, y)
	}
}

// Click simulates a press that is released before the callbacks run, so a
// drag started from them finds no held button.
func (t *Toolkit) Click(id platform.WindowID, button, x, y int) {
	t.mu.Lock()
	w, ok := t.windows[id]
	var fns []func(button, x, y int)
	if ok {
		fns = append(fns, w.pointer...)
	}
	t.PointerDown = false
	t.mu.Unlock()

	for _, fn := range fns {
		fn(button, x, y)
	}
}

// Map simulates the window manager mapping id.
func (t *Toolkit) Map(id platform.WindowID) {
	t.mu.Lock()
	w, ok := t.windows[id]
	var fns []func()
	if ok {
		w.mapped = true
		fns = append(fns, w.onMap...)
	}
	t.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Release simulates releasing the pointer.
func (t *Toolkit) Release() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.PointerDown = false
}

// RequestClose simulates the window manager closing id.
func (t *Toolkit) RequestClose(id platform.WindowID) {
	t.mu.Lock()
	w, ok := t.windows[id]
	var fns []func()
	if ok {
		fns = append(fns, w.close...)
	}
	t.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// WaitLoop blocks until EventLoop has started.
func (t *Toolkit) WaitLoop() {
	<-t.loopStart
}

func (t *Toolkit) DisplayForWindow(id platform.WindowID) (platform.Display, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	w, ok := t.windows[id]
	if !ok {
		return platform.Display{}, false, fmt.Errorf("bad window 0x%x", uint32(id))
	}
	if t.Detached {
		return platform.Display{}, false, nil
	}
	cx := w.bounds.X + w.bounds.Width/2
	cy := w.bounds.Y + w.bounds.Height/2
	for _, d := range t.DisplayList {
		b := d.Bounds
		if cx >= b.X && cx < b.X+b.Width && cy >= b.Y && cy < b.Y+b.Height {
			return d, true, nil
		}
	}
	return platform.Display{}, false, nil
}

func (t *Toolkit) OuterSize(id platform.WindowID) (int, int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	w, ok := t.windows[id]
	if !ok {
		return 0, 0, fmt.Errorf("bad window 0x%x", uint32(id))
	}
	if w.sizeErr != nil {
		return 0, 0, w.sizeErr
	}
	return w.bounds.Width, w.bounds.Height, nil
}

func (t *Toolkit) Move(id platform.WindowID, x, y int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Moves++
	if t.MoveErr != nil {
		return t.MoveErr
	}
	w, ok := t.windows[id]
	if !ok {
		return fmt.Errorf("bad window 0x%x", uint32(id))
	}
	w.bounds.X = x
	w.bounds.Y = y
	return nil
}

func (t *Toolkit) StartDrag(id platform.WindowID) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.windows[id]; !ok {
		return fmt.Errorf("bad window 0x%x", uint32(id))
	}
	if !t.PointerDown {
		return ErrNoPointerPress
	}
	if t.DragErr != nil {
		return t.DragErr
	}
	t.Drags++
	return nil
}

func (t *Toolkit) CreateWindow(opts platform.WindowOptions) (platform.WindowID, error) {
	if t.CreateErr != nil {
		return 0, t.CreateErr
	}
	t.mu.Lock()
	var origin platform.Rect
	if len(t.DisplayList) > 0 {
		origin = t.DisplayList[0].Bounds
	}
	t.mu.Unlock()

	id := t.AddWindow(platform.Rect{X: origin.X, Y: origin.Y, Width: opts.Width, Height: opts.Height})
	t.mu.Lock()
	t.windows[id].opts = opts
	t.windows[id].mapped = !t.DeferMap
	t.mu.Unlock()
	return id, nil
}

func (t *Toolkit) Focus(id platform.WindowID) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Focused = id
	return nil
}

func (t *Toolkit) PinToAllDesktops(id platform.WindowID) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.windows[id]; !ok {
		return fmt.Errorf("bad window 0x%x", uint32(id))
	}
	t.Pinned[id] = true
	return nil
}

func (t *Toolkit) BindHotkey(keySequence string, fn func()) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if keySequence == "" {
		return errors.New("hotkey is empty")
	}
	if _, ok := t.hotkeys[keySequence]; ok {
		return fmt.Errorf("hotkey %q already bound", keySequence)
	}
	t.hotkeys[keySequence] = fn
	return nil
}

// TriggerHotkey simulates pressing keySequence. It reports whether a binding
// existed.
func (t *Toolkit) TriggerHotkey(keySequence string) bool {
	t.mu.Lock()
	fn, ok := t.hotkeys[keySequence]
	t.mu.Unlock()
	if ok {
		fn()
	}
	return ok
}

func (t *Toolkit) OnPointerDown(id platform.WindowID, fn func(button, x, y int)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if w, ok := t.windows[id]; ok {
		w.pointer = append(w.pointer, fn)
	}
}

// OnMapped runs fn right away for a window that is already mapped, as the
// pending MapNotify would.
func (t *Toolkit) OnMapped(id platform.WindowID, fn func()) {
	t.mu.Lock()
	w, ok := t.windows[id]
	mapped := false
	if ok {
		w.onMap = append(w.onMap, fn)
		mapped = w.mapped
	}
	t.mu.Unlock()

	if mapped {
		fn()
	}
}

func (t *Toolkit) OnClose(id platform.WindowID, fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if w, ok := t.windows[id]; ok {
		w.close = append(w.close, fn)
	}
}

// EventLoop blocks until Quit is called.
func (t *Toolkit) EventLoop() {
	close(t.loopStart)
	<-t.loopDone
}

func (t *Toolkit) Quit() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.Quitted {
		t.Quitted = true
		close(t.loopDone)
	}
}

func (t *Toolkit) Disconnect() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Disconnected = true
}

// MoveCount returns the number of Move calls so far.
func (t *Toolkit) MoveCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.Moves
}

// DragCount returns the number of drags handed to the window manager.
func (t *Toolkit) DragCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.Drags
}
