package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/shellwin/internal/command"
	"github.com/1broseidon/shellwin/internal/plugins"
)

// CommandType names a request. Everything except CommandStatus is routed to
// the shell's command dispatcher.
type CommandType string

const (
	CommandStatus         CommandType = "status"
	CommandStartDrag      CommandType = command.StartDrag
	CommandOpenURL        CommandType = plugins.OpenURL
	CommandClipboardRead  CommandType = plugins.ClipboardRead
	CommandClipboardWrite CommandType = plugins.ClipboardWrite
)

const (
	statusOK    = "OK"
	statusError = "ERROR"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// PlacementStatus reports how startup placement went.
type PlacementStatus struct {
	Outcome      string `json:"outcome"`
	X            int    `json:"x"`
	Y            int    `json:"y"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	UsedFallback bool   `json:"used_fallback"`
	Error        string `json:"error,omitempty"`
}

// StatusData represents the data returned by status
type StatusData struct {
	Label         string           `json:"label"`
	WindowID      uint32           `json:"window_id"`
	Placement     *PlacementStatus `json:"placement,omitempty"`
	Commands      []string         `json:"commands"`
	UptimeSeconds int64            `json:"uptime_seconds"`
}

// NewOKResponse creates a successful response with optional data. data that
// is already encoded JSON is passed through unchanged.
func NewOKResponse(data any) (*Response, error) {
	var dataBytes json.RawMessage
	switch v := data.(type) {
	case nil:
	case json.RawMessage:
		dataBytes = v
	default:
		bytes, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: statusOK,
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: statusError,
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	if req.Command == "" {
		return nil, fmt.Errorf("failed to parse request: command is required")
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
