package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) handleStartDrag(ctx context.Context, _ *mcpsdk.CallToolRequest, _ StartDragInput) (*mcpsdk.CallToolResult, StartDragOutput, error) {
	if err := s.shell.StartDrag(ctx); err != nil {
		s.logger.Debug("start_drag rejected", "err", err)
		return nil, StartDragOutput{}, err
	}
	return nil, StartDragOutput{Started: true}, nil
}

func (s *Server) handleWindowStatus(ctx context.Context, _ *mcpsdk.CallToolRequest, _ WindowStatusInput) (*mcpsdk.CallToolResult, WindowStatusOutput, error) {
	status, err := s.shell.Status(ctx)
	if err != nil {
		return nil, WindowStatusOutput{}, err
	}

	out := WindowStatusOutput{
		Label:         status.Label,
		WindowID:      fmt.Sprintf("0x%x", status.WindowID),
		Placement:     "pending",
		Commands:      status.Commands,
		UptimeSeconds: status.UptimeSeconds,
	}
	if p := status.Placement; p != nil {
		out.Placement = p.Outcome
		out.X, out.Y = p.X, p.Y
		out.Width, out.Height = p.Width, p.Height
		out.UsedFallback = p.UsedFallback
	}
	return nil, out, nil
}

func (s *Server) handleOpenURL(ctx context.Context, _ *mcpsdk.CallToolRequest, args OpenURLInput) (*mcpsdk.CallToolResult, OpenURLOutput, error) {
	target := strings.TrimSpace(args.URL)
	if target == "" {
		return nil, OpenURLOutput{}, fmt.Errorf("url is required")
	}
	if err := s.shell.OpenURL(ctx, target); err != nil {
		return nil, OpenURLOutput{}, err
	}
	s.logger.Info("opened url", "url", target)
	return nil, OpenURLOutput{Opened: target}, nil
}

func (s *Server) handleClipboardRead(ctx context.Context, _ *mcpsdk.CallToolRequest, _ ClipboardReadInput) (*mcpsdk.CallToolResult, ClipboardOutput, error) {
	text, err := s.shell.ClipboardRead(ctx)
	if err != nil {
		return nil, ClipboardOutput{}, err
	}
	return nil, ClipboardOutput{Text: text}, nil
}

func (s *Server) handleClipboardWrite(ctx context.Context, _ *mcpsdk.CallToolRequest, args ClipboardWriteInput) (*mcpsdk.CallToolResult, ClipboardOutput, error) {
	if err := s.shell.ClipboardWrite(ctx, args.Text); err != nil {
		return nil, ClipboardOutput{}, err
	}
	return nil, ClipboardOutput{Text: args.Text}, nil
}
