package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/shellwin/internal/plugins"
	"github.com/1broseidon/shellwin/internal/runtimepath"
)

// RemoteError is a failure reported by the running shell, such as the
// message of a rejected start_drag.
type RemoteError struct {
	Command CommandType
	Message string
}

func (e *RemoteError) Error() string {
	return e.Message
}

// Client handles IPC communication with the running shell
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a client for the default socket path.
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientWithSocket(socketPath)
}

// NewClientWithSocket creates a client for an explicit socket path.
func NewClientWithSocket(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// SetTimeout changes the per-request dial and I/O timeout.
func (c *Client) SetTimeout(d time.Duration) {
	if d > 0 {
		c.timeout = d
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(ctx context.Context, req *Request) (*Response, error) {
	dialer := net.Dialer{Timeout: c.timeout}
	conn, err := dialer.DialContext(ctx, "unix", c.socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to shell: %w (is shellwin running?)", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	conn.SetDeadline(deadline)

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if resp.Status == statusError {
		return nil, &RemoteError{Command: req.Command, Message: resp.Error}
	}

	return &resp, nil
}

// Invoke sends cmd with an optional payload and returns the raw result.
func (c *Client) Invoke(ctx context.Context, cmd CommandType, payload any) (json.RawMessage, error) {
	req := &Request{Command: cmd}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s payload: %w", cmd, err)
		}
		req.Payload = data
	}

	resp, err := c.sendRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// StartDrag asks the shell to begin a window drag. It only succeeds while a
// pointer button is held over the window.
func (c *Client) StartDrag(ctx context.Context) error {
	_, err := c.Invoke(ctx, CommandStartDrag, nil)
	return err
}

// OpenURL asks the shell to open target with the desktop opener.
func (c *Client) OpenURL(ctx context.Context, target string) error {
	_, err := c.Invoke(ctx, CommandOpenURL, plugins.OpenURLPayload{URL: target})
	return err
}

// ClipboardRead returns the clipboard text as seen by the shell.
func (c *Client) ClipboardRead(ctx context.Context) (string, error) {
	data, err := c.Invoke(ctx, CommandClipboardRead, nil)
	if err != nil {
		return "", err
	}
	var out plugins.ClipboardText
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("failed to parse clipboard data: %w", err)
	}
	return out.Text, nil
}

// ClipboardWrite replaces the clipboard text.
func (c *Client) ClipboardWrite(ctx context.Context, text string) error {
	_, err := c.Invoke(ctx, CommandClipboardWrite, plugins.ClipboardText{Text: text})
	return err
}

// Status retrieves the shell's window status
func (c *Client) Status(ctx context.Context) (*StatusData, error) {
	data, err := c.Invoke(ctx, CommandStatus, nil)
	if err != nil {
		return nil, err
	}

	var status StatusData
	if err := json.Unmarshal(data, &status); err != nil {
		return nil, fmt.Errorf("failed to parse status data: %w", err)
	}
	return &status, nil
}

// Ping checks if the shell is responding
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Status(ctx)
	return err
}
