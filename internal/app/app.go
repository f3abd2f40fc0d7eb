// Package app wires the shell together: it creates the main window, places it
// once, routes content-layer commands to it and runs the event loop.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/1broseidon/shellwin/internal/command"
	"github.com/1broseidon/shellwin/internal/config"
	"github.com/1broseidon/shellwin/internal/ipc"
	"github.com/1broseidon/shellwin/internal/placement"
	"github.com/1broseidon/shellwin/internal/platform"
	"github.com/1broseidon/shellwin/internal/plugins"
)

// Options holds dependencies that are normally derived from the environment.
type Options struct {
	// SocketPath overrides the IPC socket location.
	SocketPath string
	// Clipboard replaces the system clipboard.
	Clipboard plugins.ClipboardBackend
}

// App is one running shell instance.
type App struct {
	cfg     *config.Config
	toolkit platform.Toolkit
	logger  *slog.Logger
	opts    Options

	registry   *platform.Registry
	dispatcher *command.Dispatcher
	placer     *placement.Controller
	server     *ipc.Server
	handle     platform.Handle

	mappedOnce sync.Once
	closeOnce  sync.Once
}

// New creates an app on top of an already connected toolkit.
func New(cfg *config.Config, tk platform.Toolkit, logger *slog.Logger, opts Options) *App {
	if logger == nil {
		logger = slog.Default()
	}
	return &App{
		cfg:        cfg,
		toolkit:    tk,
		logger:     logger,
		opts:       opts,
		registry:   platform.NewRegistry(),
		dispatcher: command.NewDispatcher(logger),
	}
}

// Dispatcher returns the command dispatcher serving the content layer.
func (a *App) Dispatcher() *command.Dispatcher {
	return a.dispatcher
}

// Handle returns the main window. It is only valid after Start.
func (a *App) Handle() platform.Handle {
	return a.handle
}

// Start creates and places the main window, registers commands and starts
// the IPC server. The event loop is not started.
func (a *App) Start(ctx context.Context) error {
	label := a.cfg.Window.Label

	id, err := a.toolkit.CreateWindow(platform.WindowOptions{
		Title:       a.cfg.Window.Title,
		Class:       a.cfg.Window.Class,
		Width:       a.cfg.Window.Width,
		Height:      a.cfg.Window.Height,
		Decorations: a.cfg.Window.Decorations,
	})
	if err != nil {
		return fmt.Errorf("failed to create window %q: %w", label, err)
	}
	if err := a.registry.Register(label, platform.NewHandle(a.toolkit, id)); err != nil {
		return err
	}

	handle, err := a.registry.Resolve(label)
	if err != nil {
		return err
	}
	a.handle = handle
	a.logger.Info("window created", "label", label, "window", handle.String())

	if a.cfg.Window.AllDesktops {
		if err := a.toolkit.PinToAllDesktops(handle.ID()); err != nil {
			a.logger.Warn("failed to pin window to all desktops", "window", handle.String(), "err", err)
		}
	}

	if a.cfg.Placement.PlacementEnabled() {
		a.placer = placement.NewController(handle, placementParams(a.cfg.Placement), a.logger)
	}
	a.toolkit.OnMapped(handle.ID(), a.onFirstMap)

	if err := a.dispatcher.RegisterDrag(command.NewDragHandler(handle)); err != nil {
		return err
	}
	enabled, err := plugins.RegisterEnabled(a.dispatcher, a.cfg.Plugins, a.opts.Clipboard, a.logger)
	if err != nil {
		return err
	}
	a.logger.Debug("plugins registered", "plugins", enabled)

	a.bindTitleBar(ctx)
	a.bindFocusHotkey()
	a.toolkit.OnClose(handle.ID(), a.toolkit.Quit)

	server, err := ipc.NewServer(a.opts.SocketPath, a.dispatcher, a.Status, a.logger)
	if err != nil {
		return err
	}
	if err := server.Start(ctx); err != nil {
		return err
	}
	a.server = server
	return nil
}

// Run starts the app and blocks in the event loop until the window is closed
// or ctx is canceled.
func (a *App) Run(ctx context.Context) error {
	if err := a.Start(ctx); err != nil {
		a.Close()
		return err
	}
	defer a.Close()

	stop := context.AfterFunc(ctx, a.toolkit.Quit)
	defer stop()

	a.toolkit.EventLoop()
	a.logger.Info("event loop finished")
	return nil
}

// Close stops the IPC server. It is safe to call more than once.
func (a *App) Close() {
	a.closeOnce.Do(func() {
		if a.server != nil {
			a.server.Stop()
		}
	})
}

// Status reports the main window for the status command.
func (a *App) Status() ipc.StatusData {
	status := ipc.StatusData{
		Label:    a.cfg.Window.Label,
		WindowID: uint32(a.handle.ID()),
	}
	if a.placer == nil {
		return status
	}
	res, ok := a.placer.Result()
	if !ok {
		return status
	}
	status.Placement = &ipc.PlacementStatus{
		Outcome:      res.Outcome.String(),
		X:            res.Target.X,
		Y:            res.Target.Y,
		Width:        res.Window.Width,
		Height:       res.Window.Height,
		UsedFallback: res.UsedFallback,
	}
	if res.Err != nil {
		status.Placement.Error = res.Err.Error()
	}
	return status
}

// onFirstMap places and focuses the window once the window manager has
// mapped and framed it.
func (a *App) onFirstMap() {
	a.mappedOnce.Do(func() {
		if a.placer != nil {
			a.placer.Run()
		}
		if err := a.toolkit.Focus(a.handle.ID()); err != nil {
			a.logger.Debug("focus failed", "window", a.handle.String(), "err", err)
		}
	})
}

// bindTitleBar starts a drag when the configured button goes down inside
// the title-bar region.
func (a *App) bindTitleBar(ctx context.Context) {
	height := a.cfg.Drag.TitleBarHeight
	if height <= 0 {
		return
	}
	button := a.cfg.Drag.Button

	a.toolkit.OnPointerDown(a.handle.ID(), func(b, x, y int) {
		if b != button || y < 0 || y >= height {
			return
		}
		_, err := a.dispatcher.Invoke(ctx, command.StartDrag, nil)
		switch {
		case err == nil:
		case errors.Is(err, platform.ErrNoPointerPress):
			// Released before the pointer was queried.
			a.logger.Debug("title bar click released before drag", "window", a.handle.String())
		default:
			a.logger.Warn("title bar drag failed", "window", a.handle.String(), "err", err)
		}
	})
}

func (a *App) bindFocusHotkey() {
	seq := a.cfg.Window.FocusHotkey
	if seq == "" {
		return
	}
	id := a.handle.ID()
	err := a.toolkit.BindHotkey(seq, func() {
		if err := a.toolkit.Focus(id); err != nil {
			a.logger.Warn("focus hotkey failed", "window", a.handle.String(), "err", err)
		}
	})
	if err != nil {
		a.logger.Warn("failed to bind focus hotkey", "hotkey", seq, "err", err)
		return
	}
	a.logger.Info("focus hotkey registered", "hotkey", seq)
}

func placementParams(cfg config.PlacementConfig) placement.Params {
	return placement.Params{
		BottomMargin: cfg.BottomMargin,
		FallbackSize: placement.Size{
			Width:  cfg.FallbackWidth,
			Height: cfg.FallbackHeight,
		},
	}
}
