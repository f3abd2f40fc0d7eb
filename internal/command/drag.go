package command

import (
	"context"
	"encoding/json"
	"strings"
)

// StartDrag is the command name the content layer invokes to begin dragging
// the window from a custom title bar.
const StartDrag = "start_drag"

const defaultDragFailure = "failed to start window drag"

// DragTarget is a window that can hand an interactive move to the window
// manager.
type DragTarget interface {
	StartDrag() error
}

// DragHandler forwards drag requests for one window. It keeps no pointer
// state; once the drag starts the window manager owns it.
type DragHandler struct {
	target DragTarget
}

// NewDragHandler binds a drag handler to an explicit window.
func NewDragHandler(target DragTarget) *DragHandler {
	return &DragHandler{target: target}
}

// StartDrag asks the window manager to start moving the window. Failures are
// returned as *Error carrying a non-empty message; there is no retry.
func (h *DragHandler) StartDrag() error {
	if err := h.target.StartDrag(); err != nil {
		msg := strings.TrimSpace(err.Error())
		if msg == "" {
			msg = defaultDragFailure
		}
		return &Error{Command: StartDrag, Message: msg, Err: err}
	}
	return nil
}

func (h *DragHandler) invoke(_ context.Context, _ json.RawMessage) (any, error) {
	return nil, h.StartDrag()
}
