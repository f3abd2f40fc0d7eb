//go:build !linux

package platform

import (
	"fmt"
	"runtime"
)

// NewToolkit reports that no native toolkit is available on this platform.
func NewToolkit(display string) (Toolkit, error) {
	return nil, fmt.Errorf("no window toolkit for %s: shellwin requires X11", runtime.GOOS)
}
