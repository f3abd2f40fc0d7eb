// Package placement positions the main window once at startup: centered
// horizontally on its monitor and anchored a fixed margin above the bottom of
// the usable area.
//
// Placement is best-effort. A missing monitor, an unreadable window size or a
// failed move never produce an error; they are reported through Result so the
// caller can tell a skipped placement from a completed one.
package placement

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
)

const (
	DefaultBottomMargin   = 60
	DefaultFallbackWidth  = 400
	DefaultFallbackHeight = 280
)

// Size is a width/height pair in physical pixels.
type Size struct {
	Width  int
	Height int
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Position is a top-left coordinate in physical pixels.
type Position struct {
	X int
	Y int
}

// Display is the usable area of a monitor. Origin is its top-left in screen
// coordinates; it is zero for a single monitor without top or left panels.
type Display struct {
	Origin Position
	Size   Size
}

// Window is the handle placement operates on. Implementations query and move
// one specific window; placement never looks windows up by name.
type Window interface {
	// CurrentDisplay returns the usable area of the monitor the window is on.
	// ok is false when the window is not attached to any monitor.
	CurrentDisplay() (display Display, ok bool, err error)
	// OuterSize returns the window size including window-manager decoration.
	OuterSize() (Size, error)
	// SetPosition moves the window's top-left corner.
	SetPosition(Position) error
}

// Params holds the tunables of the placement formula.
type Params struct {
	BottomMargin int
	FallbackSize Size
}

// DefaultParams returns a 60px bottom margin and a 400x280 fallback size.
func DefaultParams() Params {
	return Params{
		BottomMargin: DefaultBottomMargin,
		FallbackSize: Size{Width: DefaultFallbackWidth, Height: DefaultFallbackHeight},
	}
}

// Outcome describes how a placement attempt ended.
type Outcome int

const (
	// Placed means the window was moved to Result.Position.
	Placed Outcome = iota
	// SkippedNoMonitor means no monitor could be determined; nothing was moved.
	SkippedNoMonitor
	// MoveFailed means a position was computed but the move was rejected.
	MoveFailed
)

func (o Outcome) String() string {
	switch o {
	case Placed:
		return "placed"
	case SkippedNoMonitor:
		return "skipped_no_monitor"
	case MoveFailed:
		return "move_failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Result is the best-effort report of a placement attempt.
type Result struct {
	Outcome Outcome
	Display Display
	Window  Size
	// Position is relative to the display's usable origin; Target is the
	// screen coordinate passed to SetPosition.
	Position     Position
	Target       Position
	UsedFallback bool
	// Err is the absorbed toolkit error, if any. It is informational only.
	Err error
}

// Compute returns the top-left for a window of size win on a display of size
// display. x may be negative when the window is wider than the display; it is
// not clamped.
func Compute(display, win Size, bottomMargin int) Position {
	return Position{
		X: (display.Width - win.Width) / 2,
		Y: display.Height - win.Height - bottomMargin,
	}
}

// Place runs one placement attempt against w. It calls SetPosition at most
// once and never retries.
func Place(w Window, p Params) Result {
	display, ok, err := w.CurrentDisplay()
	if err != nil || !ok {
		return Result{Outcome: SkippedNoMonitor, Err: err}
	}

	res := Result{Display: display}

	size, err := w.OuterSize()
	if err != nil || size.Width <= 0 || size.Height <= 0 {
		size = p.FallbackSize
		res.UsedFallback = true
	}
	res.Window = size

	res.Position = Compute(display.Size, size, p.BottomMargin)
	res.Target = Position{
		X: display.Origin.X + res.Position.X,
		Y: display.Origin.Y + res.Position.Y,
	}
	if err := w.SetPosition(res.Target); err != nil {
		res.Outcome = MoveFailed
		res.Err = err
		return res
	}
	res.Outcome = Placed
	return res
}

// Controller runs placement exactly once for a window.
type Controller struct {
	window Window
	params Params
	logger *slog.Logger

	once   sync.Once
	done   atomic.Bool
	result Result
}

// NewController binds a placement controller to an explicit window handle.
func NewController(w Window, p Params, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{window: w, params: p, logger: logger}
}

// Run places the window on the first call. Later calls return the first result
// without touching the window.
func (c *Controller) Run() Result {
	c.once.Do(func() {
		c.result = Place(c.window, c.params)
		c.done.Store(true)
		c.log(c.result)
	})
	return c.result
}

// Result returns the outcome of the first Run, and false if Run has not
// completed yet.
func (c *Controller) Result() (Result, bool) {
	if !c.done.Load() {
		return Result{}, false
	}
	return c.result, true
}

func (c *Controller) log(res Result) {
	switch res.Outcome {
	case Placed:
		c.logger.Info("window placed",
			"x", res.Target.X,
			"y", res.Target.Y,
			"display", res.Display.Size.String(),
			"window", res.Window.String(),
			"fallback_size", res.UsedFallback)
	case SkippedNoMonitor:
		attrs := []any{}
		if res.Err != nil {
			attrs = append(attrs, "err", res.Err)
		}
		c.logger.Debug("placement skipped: no monitor for window", attrs...)
	case MoveFailed:
		c.logger.Debug("placement move failed; window left in place",
			"x", res.Target.X,
			"y", res.Target.Y,
			"err", res.Err)
	}
}
