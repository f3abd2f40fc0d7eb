package mcp

import (
	"context"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/shellwin/internal/ipc"
)

const (
	ServerName    = "shellwin"
	ServerVersion = "0.1.0"
)

// Shell is the running shell as seen over IPC. *ipc.Client implements it.
type Shell interface {
	StartDrag(ctx context.Context) error
	OpenURL(ctx context.Context, target string) error
	ClipboardRead(ctx context.Context) (string, error)
	ClipboardWrite(ctx context.Context, text string) error
	Status(ctx context.Context) (*ipc.StatusData, error)
}

var _ Shell = (*ipc.Client)(nil)

// Server exposes the shell's commands as MCP tools.
type Server struct {
	mcpServer *mcpsdk.Server
	shell     Shell
	logger    *slog.Logger
}

// NewServer creates an MCP server forwarding tool calls to shell.
func NewServer(shell Shell, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		shell:  shell,
		logger: logger,
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "start_drag",
		Description: "Start an interactive move of the shell window. Only succeeds while a pointer button is held over the window; otherwise returns the window system's error message.",
	}, s.handleStartDrag)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "window_status",
		Description: "Report the shell window id, where startup placement put it, and which commands the shell accepts.",
	}, s.handleWindowStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "open_url",
		Description: "Open an http, https, mailto or file URL with the desktop's default handler.",
	}, s.handleOpenURL)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "clipboard_read",
		Description: "Read the text currently on the desktop clipboard.",
	}, s.handleClipboardRead)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "clipboard_write",
		Description: "Replace the desktop clipboard with the given text.",
	}, s.handleClipboardWrite)
}
