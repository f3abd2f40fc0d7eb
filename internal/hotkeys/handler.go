package hotkeys

import (
	"fmt"
	"strings"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// Handler manages global keyboard shortcuts grabbed on the root window.
type Handler struct {
	xu   *xgbutil.XUtil
	root xproto.Window

	mu    sync.Mutex
	bound map[string]bool
}

var initOnce sync.Once

// NewHandler creates a hotkey handler on an open connection.
func NewHandler(xu *xgbutil.XUtil, root xproto.Window) *Handler {
	initOnce.Do(func() {
		keybind.Initialize(xu)
		configureIgnoreMods(xu)
	})

	return &Handler{
		xu:    xu,
		root:  root,
		bound: make(map[string]bool),
	}
}

// RegisterFunc grabs keySequence (e.g. "Mod4-space") globally and runs
// callback on every press. A sequence can be bound once.
func (h *Handler) RegisterFunc(keySequence string, callback func()) error {
	keySequence = strings.TrimSpace(keySequence)
	if keySequence == "" {
		return fmt.Errorf("hotkey is empty")
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.bound[keySequence] {
		return fmt.Errorf("hotkey %q already bound", keySequence)
	}

	err := keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		callback()
	}).Connect(h.xu, h.root, keySequence, true)
	if err != nil {
		return fmt.Errorf("failed to grab hotkey %q: %w", keySequence, err)
	}
	h.bound[keySequence] = true
	return nil
}

// configureIgnoreMods makes grabs fire regardless of lock keys.
func configureIgnoreMods(xu *xgbutil.XUtil) {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	xevent.IgnoreMods = ignoreMasks(caps, numLock, scrollLock)
}

// ignoreMasks returns every combination of the distinct non-zero lock masks,
// including the empty one.
func ignoreMasks(locks ...uint16) []uint16 {
	var base []uint16
	for _, m := range locks {
		if m == 0 {
			continue
		}
		dup := false
		for _, b := range base {
			if b == m {
				dup = true
				break
			}
		}
		if !dup {
			base = append(base, m)
		}
	}

	masks := make([]uint16, 0, 1<<len(base))
	for subset := 0; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		masks = append(masks, mask)
	}
	return masks
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
