package placement

import (
	"errors"
	"io"
	"log/slog"
	"testing"
)

type fakeWindow struct {
	display    Display
	hasDisplay bool
	displayErr error

	size    Size
	sizeErr error

	moveErr error
	moves   []Position
	pos     Position
}

func (f *fakeWindow) CurrentDisplay() (Display, bool, error) {
	return f.display, f.hasDisplay, f.displayErr
}

func (f *fakeWindow) OuterSize() (Size, error) {
	return f.size, f.sizeErr
}

func (f *fakeWindow) SetPosition(p Position) error {
	f.moves = append(f.moves, p)
	if f.moveErr != nil {
		return f.moveErr
	}
	f.pos = p
	return nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name    string
		display Size
		win     Size
		margin  int
		want    Position
	}{
		{"full hd", Size{1920, 1080}, Size{400, 280}, 60, Position{760, 740}},
		{"odd remainder truncates", Size{1921, 1080}, Size{400, 280}, 60, Position{760, 740}},
		{"zero margin", Size{800, 600}, Size{200, 100}, 0, Position{300, 500}},
		{"window equals display", Size{400, 280}, Size{400, 280}, 60, Position{0, -60}},
		{"wider than display is not clamped", Size{300, 1000}, Size{400, 280}, 60, Position{-50, 660}},
		{"odd negative truncates toward zero", Size{300, 1000}, Size{401, 280}, 60, Position{-50, 660}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(tt.display, tt.win, tt.margin)
			if got != tt.want {
				t.Fatalf("Compute(%v, %v, %d) = %+v, want %+v", tt.display, tt.win, tt.margin, got, tt.want)
			}
		})
	}
}

func TestCompute_PropertyForFittingWindows(t *testing.T) {
	for dw := 100; dw <= 3000; dw += 137 {
		for dh := 100; dh <= 2000; dh += 151 {
			for ww := 1; ww <= dw; ww += 97 {
				for wh := 1; wh <= dh; wh += 89 {
					got := Compute(Size{dw, dh}, Size{ww, wh}, 60)
					if got.X != (dw-ww)/2 || got.Y != dh-wh-60 {
						t.Fatalf("Compute(%dx%d, %dx%d) = %+v", dw, dh, ww, wh, got)
					}
				}
			}
		}
	}
}

func TestPlace_UsesLiveSize(t *testing.T) {
	w := &fakeWindow{
		display:    Display{Size: Size{1920, 1080}},
		hasDisplay: true,
		size:       Size{600, 300},
	}

	res := Place(w, DefaultParams())
	if res.Outcome != Placed {
		t.Fatalf("Outcome = %v, want placed", res.Outcome)
	}
	if res.UsedFallback {
		t.Fatal("fallback should not override a successfully read size")
	}
	want := Position{660, 720}
	if res.Position != want || w.pos != want {
		t.Fatalf("position = %+v (window at %+v), want %+v", res.Position, w.pos, want)
	}
	if len(w.moves) != 1 {
		t.Fatalf("expected exactly one move, got %d", len(w.moves))
	}
}

func TestPlace_FallbackSizeWhenUnavailable(t *testing.T) {
	w := &fakeWindow{
		display:    Display{Size: Size{1920, 1080}},
		hasDisplay: true,
		sizeErr:    errors.New("no geometry"),
	}

	res := Place(w, DefaultParams())
	if !res.UsedFallback {
		t.Fatal("expected fallback size to be used")
	}
	if res.Window != (Size{400, 280}) {
		t.Fatalf("Window = %v, want 400x280", res.Window)
	}
	if res.Position != (Position{760, 740}) {
		t.Fatalf("Position = %+v, want {760 740}", res.Position)
	}
}

func TestPlace_ZeroSizeTreatedAsUnavailable(t *testing.T) {
	w := &fakeWindow{display: Display{Size: Size{1920, 1080}}, hasDisplay: true}

	res := Place(w, DefaultParams())
	if !res.UsedFallback {
		t.Fatal("expected fallback for a zero-sized window")
	}
	if res.Position != (Position{760, 740}) {
		t.Fatalf("Position = %+v, want {760 740}", res.Position)
	}
}

func TestPlace_CustomParams(t *testing.T) {
	w := &fakeWindow{display: Display{Size: Size{1000, 800}}, hasDisplay: true, sizeErr: errors.New("x")}

	res := Place(w, Params{BottomMargin: 10, FallbackSize: Size{200, 100}})
	if res.Position != (Position{400, 690}) {
		t.Fatalf("Position = %+v, want {400 690}", res.Position)
	}
}

func TestPlace_NoMonitorIsNoop(t *testing.T) {
	tests := []struct {
		name string
		w    *fakeWindow
	}{
		{"not attached", &fakeWindow{size: Size{400, 280}, pos: Position{5, 7}}},
		{"query error", &fakeWindow{displayErr: errors.New("randr"), hasDisplay: true, pos: Position{5, 7}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Place(tt.w, DefaultParams())
			if res.Outcome != SkippedNoMonitor {
				t.Fatalf("Outcome = %v, want skipped_no_monitor", res.Outcome)
			}
			if len(tt.w.moves) != 0 {
				t.Fatalf("expected no moves, got %v", tt.w.moves)
			}
			if tt.w.pos != (Position{5, 7}) {
				t.Fatalf("position changed to %+v", tt.w.pos)
			}
		})
	}
}

func TestPlace_MoveFailureIsAbsorbed(t *testing.T) {
	moveErr := errors.New("BadWindow")
	w := &fakeWindow{
		display:    Display{Size: Size{1920, 1080}},
		hasDisplay: true,
		size:       Size{400, 280},
		moveErr:    moveErr,
		pos:        Position{1, 2},
	}

	res := Place(w, DefaultParams())
	if res.Outcome != MoveFailed {
		t.Fatalf("Outcome = %v, want move_failed", res.Outcome)
	}
	if !errors.Is(res.Err, moveErr) {
		t.Fatalf("Err = %v, want %v", res.Err, moveErr)
	}
	if len(w.moves) != 1 {
		t.Fatalf("expected a single attempt without retry, got %d", len(w.moves))
	}
	if w.pos != (Position{1, 2}) {
		t.Fatalf("window moved to %+v despite failure", w.pos)
	}
}

func TestController_RunsOnce(t *testing.T) {
	w := &fakeWindow{display: Display{Size: Size{1920, 1080}}, hasDisplay: true, size: Size{400, 280}}
	c := NewController(w, DefaultParams(), quietLogger())

	if _, ok := c.Result(); ok {
		t.Fatal("Result() reported done before Run")
	}

	first := c.Run()
	w.display = Display{Size: Size{800, 600}}
	second := c.Run()

	if len(w.moves) != 1 {
		t.Fatalf("expected one move across two runs, got %d", len(w.moves))
	}
	if first.Position != second.Position {
		t.Fatalf("second Run returned %+v, want first result %+v", second.Position, first.Position)
	}
	got, ok := c.Result()
	if !ok || got.Position != (Position{760, 740}) {
		t.Fatalf("Result() = %+v, %v", got, ok)
	}
}

func TestOutcomeString(t *testing.T) {
	if Placed.String() != "placed" || SkippedNoMonitor.String() != "skipped_no_monitor" || MoveFailed.String() != "move_failed" {
		t.Fatal("unexpected outcome names")
	}
	if Outcome(9).String() != "outcome(9)" {
		t.Fatalf("Outcome(9).String() = %q", Outcome(9).String())
	}
}

func TestPlace_OffsetsByDisplayOrigin(t *testing.T) {
	// Right-hand monitor with a 30px top panel.
	w := &fakeWindow{
		display: Display{
			Origin: Position{X: 1920, Y: 30},
			Size:   Size{1920, 1050},
		},
		hasDisplay: true,
		size:       Size{400, 280},
	}

	res := Place(w, DefaultParams())
	if res.Position != (Position{760, 710}) {
		t.Fatalf("Position = %+v, want {760 710}", res.Position)
	}
	if res.Target != (Position{2680, 740}) || w.pos != res.Target {
		t.Fatalf("Target = %+v (window at %+v), want {2680 740}", res.Target, w.pos)
	}
}
