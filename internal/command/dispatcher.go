package command

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// HandlerFunc executes one command. payload may be nil. The returned value is
// encoded as JSON for the caller.
type HandlerFunc func(ctx context.Context, payload json.RawMessage) (any, error)

// Dispatcher routes named commands from the content layer to handlers.
// Invocations run one at a time, the same way a UI thread would run them.
type Dispatcher struct {
	logger *slog.Logger

	regMu    sync.RWMutex
	handlers map[string]HandlerFunc

	runMu sync.Mutex
}

func NewDispatcher(logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		logger:   logger,
		handlers: make(map[string]HandlerFunc),
	}
}

// Register adds a handler under name. Names are unique.
func (d *Dispatcher) Register(name string, fn HandlerFunc) error {
	if name == "" {
		return fmt.Errorf("command name is required")
	}
	if fn == nil {
		return fmt.Errorf("command %q has no handler", name)
	}

	d.regMu.Lock()
	defer d.regMu.Unlock()
	if _, exists := d.handlers[name]; exists {
		return fmt.Errorf("command %q already registered", name)
	}
	d.handlers[name] = fn
	return nil
}

// RegisterDrag exposes h as the start_drag command.
func (d *Dispatcher) RegisterDrag(h *DragHandler) error {
	return d.Register(StartDrag, h.invoke)
}

// Commands returns the registered command names in sorted order.
func (d *Dispatcher) Commands() []string {
	d.regMu.RLock()
	defer d.regMu.RUnlock()

	names := make([]string, 0, len(d.handlers))
	for name := range d.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Invoke runs the named command. On failure the error is always an *Error.
func (d *Dispatcher) Invoke(ctx context.Context, name string, payload json.RawMessage) (json.RawMessage, error) {
	d.regMu.RLock()
	fn, ok := d.handlers[name]
	d.regMu.RUnlock()
	if !ok {
		return nil, &Error{
			Command: name,
			Message: fmt.Sprintf("unknown command: %s", name),
			Err:     ErrUnknownCommand,
		}
	}

	d.runMu.Lock()
	defer d.runMu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, asCommandError(name, err)
	}

	result, err := fn(ctx, payload)
	if err != nil {
		cmdErr := asCommandError(name, err)
		d.logger.Debug("command failed", "command", name, "err", cmdErr.Message)
		return nil, cmdErr
	}
	d.logger.Debug("command ok", "command", name)

	if result == nil {
		return nil, nil
	}
	data, err := json.Marshal(result)
	if err != nil {
		return nil, asCommandError(name, fmt.Errorf("failed to encode %s result: %w", name, err))
	}
	return data, nil
}
