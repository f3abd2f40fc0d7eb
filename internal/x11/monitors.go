package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// Monitor represents a physical display. Bounds is the full CRTC area and
// Usable excludes panels and docks.
type Monitor struct {
	ID     int
	Name   string
	Bounds Rect
	Usable Rect
}

// Rect is a rectangle in root-window coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

func (r Rect) right() int  { return r.X + r.Width }
func (r Rect) bottom() int { return r.Y + r.Height }

// Contains reports whether the point lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.right() && y >= r.Y && y < r.bottom()
}

// Intersect returns the overlap of r and o, or the zero Rect when they do not
// overlap.
func (r Rect) Intersect(o Rect) Rect {
	x1 := max(r.X, o.X)
	y1 := max(r.Y, o.Y)
	x2 := min(r.right(), o.right())
	y2 := min(r.bottom(), o.bottom())
	if x2 <= x1 || y2 <= y1 {
		return Rect{}
	}
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Monitors retrieves all active monitors using XRandR. Usable areas are
// filled in from dock struts or _NET_WORKAREA.
func (c *Connection) Monitors() ([]Monitor, error) {
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var monitors []Monitor
	for i, crtc := range resources.Crtcs {
		info, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		// Disabled CRTC.
		if info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}

		name := fmt.Sprintf("Monitor%d", i)
		if out, err := randr.GetOutputInfo(c.XUtil.Conn(), info.Outputs[0], resources.ConfigTimestamp).Reply(); err == nil {
			name = string(out.Name)
		}

		bounds := Rect{
			X:      int(info.X),
			Y:      int(info.Y),
			Width:  int(info.Width),
			Height: int(info.Height),
		}
		monitors = append(monitors, Monitor{
			ID:     i,
			Name:   name,
			Bounds: bounds,
			Usable: bounds,
		})
	}

	for i := range monitors {
		monitors[i].Usable = c.usableArea(monitors[i].Bounds)
	}
	return monitors, nil
}

// MonitorForWindow returns the monitor containing the center of the window.
// It returns (nil, nil) when the window is not on any active monitor.
func (c *Connection) MonitorForWindow(win xproto.Window) (*Monitor, error) {
	monitors, err := c.Monitors()
	if err != nil {
		return nil, err
	}
	if len(monitors) == 0 {
		return nil, nil
	}

	frame, err := c.WindowRect(win)
	if err != nil {
		return nil, err
	}
	cx := frame.X + frame.Width/2
	cy := frame.Y + frame.Height/2

	for i := range monitors {
		if monitors[i].Bounds.Contains(cx, cy) {
			return &monitors[i], nil
		}
	}
	return nil, nil
}

// usableArea shrinks a monitor's bounds by dock struts, falling back to the
// current desktop's _NET_WORKAREA when no dock reserves space.
func (c *Connection) usableArea(bounds Rect) Rect {
	if usable, ok := c.applyDockStruts(bounds); ok {
		return usable
	}

	workArea, err := ewmh.WorkareaGet(c.XUtil)
	if err != nil || len(workArea) == 0 {
		return bounds
	}
	desktop := 0
	if cur, err := c.CurrentDesktop(); err == nil && cur < len(workArea) {
		desktop = cur
	}
	wa := workArea[desktop]
	isect := bounds.Intersect(Rect{X: int(wa.X), Y: int(wa.Y), Width: int(wa.Width), Height: int(wa.Height)})
	if isect.Empty() {
		return bounds
	}
	return isect
}

type struts struct {
	left, right, top, bottom int
}

func (s struts) zero() bool {
	return s.left == 0 && s.right == 0 && s.top == 0 && s.bottom == 0
}

func (c *Connection) applyDockStruts(bounds Rect) (Rect, bool) {
	rootGeom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
	if err != nil {
		return bounds, false
	}
	rootW := int(rootGeom.Width)
	rootH := int(rootGeom.Height)

	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return bounds, false
	}

	var acc struts
	for _, win := range clients {
		if !c.isDock(win) {
			continue
		}

		sp, err := ewmh.WmStrutPartialGet(c.XUtil, win)
		if err != nil {
			// Some docks only set _NET_WM_STRUT (no partial ranges).
			s, err := ewmh.WmStrutGet(c.XUtil, win)
			if err != nil {
				continue
			}
			sp = &ewmh.WmStrutPartial{
				Left: s.Left, Right: s.Right, Top: s.Top, Bottom: s.Bottom,
				LeftEndY:   uint(rootH - 1),
				RightEndY:  uint(rootH - 1),
				TopEndX:    uint(rootW - 1),
				BottomEndX: uint(rootW - 1),
			}
		}
		accumulateStruts(bounds, rootW, rootH, sp, &acc)
	}

	if acc.zero() {
		return bounds, false
	}

	usable := Rect{
		X:      bounds.X + acc.left,
		Y:      bounds.Y + acc.top,
		Width:  max(bounds.Width-acc.left-acc.right, 1),
		Height: max(bounds.Height-acc.top-acc.bottom, 1),
	}
	return usable, true
}

func (c *Connection) isDock(win xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, win)
	if err != nil {
		return false
	}
	for _, t := range types {
		if t == "_NET_WM_WINDOW_TYPE_DOCK" {
			return true
		}
	}
	return false
}

// accumulateStruts records, per edge, the largest band a strut reserves on
// the monitor.
func accumulateStruts(mon Rect, rootW, rootH int, sp *ewmh.WmStrutPartial, acc *struts) {
	if sp.Top > 0 {
		band := Rect{X: int(sp.TopStartX), Y: 0, Width: int(sp.TopEndX) - int(sp.TopStartX) + 1, Height: int(sp.Top)}
		acc.top = max(acc.top, mon.Intersect(band).Height)
	}
	if sp.Bottom > 0 {
		band := Rect{X: int(sp.BottomStartX), Y: rootH - int(sp.Bottom), Width: int(sp.BottomEndX) - int(sp.BottomStartX) + 1, Height: int(sp.Bottom)}
		acc.bottom = max(acc.bottom, mon.Intersect(band).Height)
	}
	if sp.Left > 0 {
		band := Rect{X: 0, Y: int(sp.LeftStartY), Width: int(sp.Left), Height: int(sp.LeftEndY) - int(sp.LeftStartY) + 1}
		acc.left = max(acc.left, mon.Intersect(band).Width)
	}
	if sp.Right > 0 {
		band := Rect{X: rootW - int(sp.Right), Y: int(sp.RightStartY), Width: int(sp.Right), Height: int(sp.RightEndY) - int(sp.RightStartY) + 1}
		acc.right = max(acc.right, mon.Intersect(band).Width)
	}
}
