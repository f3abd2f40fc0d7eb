package ipc

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/1broseidon/shellwin/internal/command"
	"github.com/1broseidon/shellwin/internal/platform"
	"github.com/1broseidon/shellwin/internal/platform/platformtest"
	"github.com/1broseidon/shellwin/internal/plugins"
)

type memClipboard struct{ text string }

func (m *memClipboard) ReadAll() (string, error) { return m.text, nil }

func (m *memClipboard) WriteAll(text string) error {
	m.text = text
	return nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// shortSocketPath keeps the path under the sun_path limit, which t.TempDir
// can exceed for long test names.
func shortSocketPath(t *testing.T) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "swipc")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	return filepath.Join(dir, "s.sock")
}

type fixture struct {
	tk     *platformtest.Toolkit
	id     platform.WindowID
	clip   *memClipboard
	server *Server
	client *Client
}

func startServer(t *testing.T) *fixture {
	t.Helper()

	tk := platformtest.New(1920, 1080)
	id := tk.AddWindow(platform.Rect{X: 760, Y: 740, Width: 400, Height: 280})
	clip := &memClipboard{}

	d := command.NewDispatcher(quietLogger())
	if err := d.RegisterDrag(command.NewDragHandler(platform.NewHandle(tk, id))); err != nil {
		t.Fatal(err)
	}
	if err := plugins.NewClipboard(clip).Register(d); err != nil {
		t.Fatal(err)
	}

	status := func() StatusData {
		return StatusData{
			Label:    "main",
			WindowID: uint32(id),
			Placement: &PlacementStatus{
				Outcome: "placed",
				X:       760,
				Y:       740,
				Width:   400,
				Height:  280,
			},
		}
	}

	srv, err := NewServer(shortSocketPath(t), d, status, quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	if err := srv.Start(context.Background()); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	t.Cleanup(srv.Stop)

	return &fixture{
		tk:     tk,
		id:     id,
		clip:   clip,
		server: srv,
		client: NewClientWithSocket(srv.SocketPath()),
	}
}

func TestStartDrag_ErrorMessageReachesClient(t *testing.T) {
	f := startServer(t)

	err := f.client.StartDrag(context.Background())
	var remote *RemoteError
	if !errors.As(err, &remote) {
		t.Fatalf("StartDrag() error = %v, want *RemoteError", err)
	}
	if remote.Message == "" || remote.Command != CommandStartDrag {
		t.Fatalf("remote error = %+v", remote)
	}
	if f.tk.DragCount() != 0 {
		t.Fatalf("DragCount() = %d, want 0", f.tk.DragCount())
	}
}

func TestStartDrag_SucceedsDuringPress(t *testing.T) {
	f := startServer(t)
	f.tk.Press(f.id, 1, 10, 10)

	if err := f.client.StartDrag(context.Background()); err != nil {
		t.Fatalf("StartDrag() error: %v", err)
	}
	if f.tk.DragCount() != 1 {
		t.Fatalf("DragCount() = %d, want 1", f.tk.DragCount())
	}
}

func TestClipboardRoundTrip(t *testing.T) {
	f := startServer(t)
	ctx := context.Background()

	if err := f.client.ClipboardWrite(ctx, "hello"); err != nil {
		t.Fatalf("ClipboardWrite() error: %v", err)
	}
	if f.clip.text != "hello" {
		t.Fatalf("clipboard = %q", f.clip.text)
	}
	got, err := f.client.ClipboardRead(ctx)
	if err != nil {
		t.Fatalf("ClipboardRead() error: %v", err)
	}
	if got != "hello" {
		t.Fatalf("ClipboardRead() = %q", got)
	}
}

func TestStatus(t *testing.T) {
	f := startServer(t)

	status, err := f.client.Status(context.Background())
	if err != nil {
		t.Fatalf("Status() error: %v", err)
	}
	if status.Label != "main" || status.WindowID != uint32(f.id) {
		t.Fatalf("status = %+v", status)
	}
	if status.Placement == nil || status.Placement.Outcome != "placed" || status.Placement.Y != 740 {
		t.Fatalf("placement = %+v", status.Placement)
	}
	want := []string{"status", "clipboard_read", "clipboard_write", "start_drag"}
	if strings.Join(status.Commands, ",") != strings.Join(want, ",") {
		t.Fatalf("Commands = %v, want %v", status.Commands, want)
	}
	if err := f.client.Ping(context.Background()); err != nil {
		t.Fatalf("Ping() error: %v", err)
	}
}

func TestUnknownCommand(t *testing.T) {
	f := startServer(t)

	_, err := f.client.Invoke(context.Background(), "resize", nil)
	if err == nil || err.Error() != "unknown command: resize" {
		t.Fatalf("Invoke() error = %v", err)
	}
}

func TestMalformedRequest(t *testing.T) {
	f := startServer(t)

	conn, err := net.Dial("unix", f.server.SocketPath())
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	if _, err := conn.Write([]byte("{not json\n")); err != nil {
		t.Fatal(err)
	}

	var resp Response
	if err := json.NewDecoder(conn).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "ERROR" || !strings.Contains(resp.Error, "invalid request") {
		t.Fatalf("response = %+v", resp)
	}
}

func TestStart_RefusesLiveSocket(t *testing.T) {
	f := startServer(t)

	other, err := NewServer(f.server.SocketPath(), command.NewDispatcher(quietLogger()), nil, quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	if err := other.Start(context.Background()); err == nil {
		other.Stop()
		t.Fatal("second server should not take over a live socket")
	}
}

func TestStart_ReplacesStaleSocket(t *testing.T) {
	path := shortSocketPath(t)
	if err := os.WriteFile(path, nil, 0600); err != nil {
		t.Fatal(err)
	}

	srv, err := NewServer(path, command.NewDispatcher(quietLogger()), nil, quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	if err := srv.Start(context.Background()); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	srv.Stop()

	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("socket not removed on Stop: %v", err)
	}
}

func TestStop_ReturnsWithIdleClientConnected(t *testing.T) {
	f := startServer(t)

	conn, err := net.Dial("unix", f.server.SocketPath())
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	done := make(chan struct{})
	go func() {
		f.server.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("Stop() blocked by an idle client")
	}

	// The server side of the idle connection is closed.
	conn.SetReadDeadline(time.Now().Add(time.Second))
	if _, err := conn.Read(make([]byte, 1)); err == nil {
		t.Fatal("idle connection still open after Stop()")
	}
}

func TestClient_TimeoutOnSilentPeer(t *testing.T) {
	path := shortSocketPath(t)
	ln, err := net.Listen("unix", path)
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		io.Copy(io.Discard, conn)
	}()

	c := NewClientWithSocket(path)
	c.SetTimeout(100 * time.Millisecond)

	start := time.Now()
	if _, err := c.Status(context.Background()); err == nil {
		t.Fatal("Status() against a silent peer should fail")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("Status() took %v, want about 100ms", elapsed)
	}
}

func TestClient_NoServer(t *testing.T) {
	c := NewClientWithSocket(shortSocketPath(t))
	if err := c.Ping(context.Background()); err == nil || !strings.Contains(err.Error(), "is shellwin running") {
		t.Fatalf("Ping() error = %v", err)
	}
}
