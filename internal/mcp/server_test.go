package mcp

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"strings"
	"testing"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/shellwin/internal/ipc"
)

type fakeShell struct {
	dragErr   error
	drags     int
	opened    []string
	openErr   error
	clipboard string
	status    *ipc.StatusData
}

func (f *fakeShell) StartDrag(context.Context) error {
	f.drags++
	return f.dragErr
}

func (f *fakeShell) OpenURL(_ context.Context, target string) error {
	if f.openErr != nil {
		return f.openErr
	}
	f.opened = append(f.opened, target)
	return nil
}

func (f *fakeShell) ClipboardRead(context.Context) (string, error) { return f.clipboard, nil }

func (f *fakeShell) ClipboardWrite(_ context.Context, text string) error {
	f.clipboard = text
	return nil
}

func (f *fakeShell) Status(context.Context) (*ipc.StatusData, error) {
	if f.status == nil {
		return nil, errors.New("failed to connect to shell")
	}
	return f.status, nil
}

func newTestServer(shell *fakeShell) *Server {
	return NewServer(shell, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestHandleStartDrag(t *testing.T) {
	shell := &fakeShell{}
	s := newTestServer(shell)

	_, out, err := s.handleStartDrag(context.Background(), nil, StartDragInput{})
	if err != nil || !out.Started {
		t.Fatalf("handleStartDrag() = %+v, %v", out, err)
	}

	shell.dragErr = &ipc.RemoteError{Command: ipc.CommandStartDrag, Message: "no pointer button is pressed"}
	_, out, err = s.handleStartDrag(context.Background(), nil, StartDragInput{})
	if err == nil || err.Error() != "no pointer button is pressed" {
		t.Fatalf("handleStartDrag() error = %v", err)
	}
	if out.Started {
		t.Fatal("failed drag reported as started")
	}
	if shell.drags != 2 {
		t.Fatalf("drags = %d, want 2", shell.drags)
	}
}

func TestHandleWindowStatus(t *testing.T) {
	tests := []struct {
		name          string
		status        *ipc.StatusData
		wantPlacement string
		wantErr       bool
	}{
		{
			name: "placed",
			status: &ipc.StatusData{
				Label:     "main",
				WindowID:  0x2a00001,
				Placement: &ipc.PlacementStatus{Outcome: "placed", X: 760, Y: 740, Width: 400, Height: 280},
				Commands:  []string{"status", "start_drag"},
			},
			wantPlacement: "placed",
		},
		{
			name:          "placement not run",
			status:        &ipc.StatusData{Label: "main", WindowID: 1},
			wantPlacement: "pending",
		},
		{
			name:    "shell not running",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(&fakeShell{status: tt.status})
			_, out, err := s.handleWindowStatus(context.Background(), nil, WindowStatusInput{})
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if out.Placement != tt.wantPlacement {
				t.Fatalf("Placement = %q, want %q", out.Placement, tt.wantPlacement)
			}
			if tt.wantPlacement == "placed" && (out.WindowID != "0x2a00001" || out.Y != 740) {
				t.Fatalf("out = %+v", out)
			}
		})
	}
}

func TestHandleOpenURL(t *testing.T) {
	shell := &fakeShell{}
	s := newTestServer(shell)

	if _, _, err := s.handleOpenURL(context.Background(), nil, OpenURLInput{URL: "  "}); err == nil {
		t.Fatal("empty url should be rejected")
	}
	_, out, err := s.handleOpenURL(context.Background(), nil, OpenURLInput{URL: " https://example.com "})
	if err != nil {
		t.Fatal(err)
	}
	if out.Opened != "https://example.com" || len(shell.opened) != 1 {
		t.Fatalf("out = %+v, opened = %v", out, shell.opened)
	}

	shell.openErr = errors.New(`refusing to open "ftp://x": scheme "ftp" is not allowed`)
	if _, _, err := s.handleOpenURL(context.Background(), nil, OpenURLInput{URL: "ftp://x"}); err == nil || !strings.Contains(err.Error(), "not allowed") {
		t.Fatalf("handleOpenURL() error = %v", err)
	}
}

func TestHandleClipboard(t *testing.T) {
	shell := &fakeShell{}
	s := newTestServer(shell)

	if _, _, err := s.handleClipboardWrite(context.Background(), nil, ClipboardWriteInput{Text: "abc"}); err != nil {
		t.Fatal(err)
	}
	_, out, err := s.handleClipboardRead(context.Background(), nil, ClipboardReadInput{})
	if err != nil || out.Text != "abc" {
		t.Fatalf("handleClipboardRead() = %+v, %v", out, err)
	}
}

func TestToolsAreListed(t *testing.T) {
	ctx := context.Background()
	s := newTestServer(&fakeShell{})

	serverTransport, clientTransport := mcpsdk.NewInMemoryTransports()
	serverSession, err := s.mcpServer.Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer serverSession.Close()

	client := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "test", Version: "0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer session.Close()

	res, err := session.ListTools(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	sort.Strings(names)
	want := "clipboard_read,clipboard_write,open_url,start_drag,window_status"
	if got := strings.Join(names, ","); got != want {
		t.Fatalf("tools = %s, want %s", got, want)
	}
}
