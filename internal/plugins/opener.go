package plugins

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"os/exec"
	"strings"

	"github.com/1broseidon/shellwin/internal/command"
)

// OpenURL is the command that opens an external resource.
const OpenURL = "open_url"

var openableSchemes = map[string]bool{
	"http":   true,
	"https":  true,
	"mailto": true,
	"file":   true,
}

// OpenURLPayload is the payload of open_url.
type OpenURLPayload struct {
	URL string `json:"url"`
}

// Opener launches external resources with a desktop opener such as xdg-open.
type Opener struct {
	argv   []string
	logger *slog.Logger
	// start launches the process without waiting for it.
	start func(name string, args ...string) error
}

// NewOpener returns an opener that runs command (split on whitespace) with the
// target appended as the last argument.
func NewOpener(cmd string, logger *slog.Logger) (*Opener, error) {
	argv := strings.Fields(cmd)
	if len(argv) == 0 {
		return nil, fmt.Errorf("opener command is empty")
	}
	if logger == nil {
		logger = slog.Default()
	}
	o := &Opener{argv: argv, logger: logger}
	o.start = o.startProcess
	return o, nil
}

// ValidateTarget checks that target is an absolute URL with an allowed scheme.
func ValidateTarget(target string) (*url.URL, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return nil, fmt.Errorf("url is required")
	}
	u, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("invalid url %q: %w", target, err)
	}
	scheme := strings.ToLower(u.Scheme)
	if !openableSchemes[scheme] {
		return nil, fmt.Errorf("refusing to open %q: scheme %q is not allowed", target, u.Scheme)
	}
	if (scheme == "http" || scheme == "https") && u.Host == "" {
		return nil, fmt.Errorf("invalid url %q: missing host", target)
	}
	return u, nil
}

// Open launches the opener for target. It returns once the process has
// started.
func (o *Opener) Open(target string) error {
	u, err := ValidateTarget(target)
	if err != nil {
		return err
	}
	args := append(append([]string(nil), o.argv[1:]...), u.String())
	if err := o.start(o.argv[0], args...); err != nil {
		return fmt.Errorf("failed to launch %s: %w", o.argv[0], err)
	}
	return nil
}

// Register exposes the opener as the open_url command.
func (o *Opener) Register(d *command.Dispatcher) error {
	return d.Register(OpenURL, func(_ context.Context, payload json.RawMessage) (any, error) {
		var p OpenURLPayload
		if err := decodePayload(payload, &p); err != nil {
			return nil, err
		}
		return nil, o.Open(p.URL)
	})
}

func (o *Opener) startProcess(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		if err := cmd.Wait(); err != nil {
			o.logger.Warn("opener exited with error", "command", name, "err", err)
		}
	}()
	return nil
}

func decodePayload(payload json.RawMessage, v any) error {
	if len(payload) == 0 {
		return fmt.Errorf("payload is required")
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	return nil
}
