package platform

import (
	"fmt"

	"github.com/1broseidon/shellwin/internal/placement"
)

// Handle is an explicit reference to one window on a backend. Controllers
// receive a Handle instead of looking windows up by name.
type Handle struct {
	backend Backend
	id      WindowID
}

// NewHandle binds a window id to the backend that owns it.
func NewHandle(b Backend, id WindowID) Handle {
	return Handle{backend: b, id: id}
}

// ID returns the native window id.
func (h Handle) ID() WindowID {
	return h.id
}

func (h Handle) String() string {
	return fmt.Sprintf("0x%x", uint32(h.id))
}

// CurrentDisplay returns the usable area of the display the window is on.
func (h Handle) CurrentDisplay() (placement.Display, bool, error) {
	d, ok, err := h.backend.DisplayForWindow(h.id)
	if err != nil || !ok {
		return placement.Display{}, false, err
	}
	return placement.Display{
		Origin: placement.Position{X: d.Usable.X, Y: d.Usable.Y},
		Size:   placement.Size{Width: d.Usable.Width, Height: d.Usable.Height},
	}, true, nil
}

// OuterSize returns the window size including decoration.
func (h Handle) OuterSize() (placement.Size, error) {
	w, ht, err := h.backend.OuterSize(h.id)
	if err != nil {
		return placement.Size{}, err
	}
	return placement.Size{Width: w, Height: ht}, nil
}

// SetPosition moves the window's top-left corner.
func (h Handle) SetPosition(p placement.Position) error {
	return h.backend.Move(h.id, p.X, p.Y)
}

// StartDrag hands an interactive move of the window to the window manager.
func (h Handle) StartDrag() error {
	return h.backend.StartDrag(h.id)
}
