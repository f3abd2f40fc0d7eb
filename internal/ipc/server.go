package ipc

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/shellwin/internal/command"
	"github.com/1broseidon/shellwin/internal/runtimepath"
)

// readTimeout bounds how long a client may take to send its request line.
const readTimeout = 5 * time.Second

// StatusFunc reports the current window state for the status command.
type StatusFunc func() StatusData

// Server exposes the command dispatcher on a unix socket.
type Server struct {
	socketPath string
	listener   net.Listener
	dispatcher *command.Dispatcher
	status     StatusFunc
	logger     *slog.Logger
	startTime  time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a new IPC server. An empty socketPath uses the runtime
// socket path.
func NewServer(socketPath string, d *command.Dispatcher, status StatusFunc, logger *slog.Logger) (*Server, error) {
	if d == nil {
		return nil, fmt.Errorf("ipc server needs a dispatcher")
	}
	if socketPath == "" {
		p, err := runtimepath.SocketPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
		}
		socketPath = p
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		socketPath: socketPath,
		dispatcher: d,
		status:     status,
		logger:     logger,
		startTime:  time.Now(),
	}, nil
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Start begins listening for IPC connections. Requests in flight are canceled
// when ctx is done or Stop is called.
func (s *Server) Start(ctx context.Context) error {
	if err := s.removeStaleSocket(); err != nil {
		return err
	}

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.ctx, s.cancel = context.WithCancel(ctx)
	s.logger.Info("ipc server listening", "socket", s.socketPath)

	s.wg.Add(1)
	go s.acceptLoop()

	return nil
}

// removeStaleSocket deletes a socket left behind by a crashed shell and
// refuses to steal one that still answers.
func (s *Server) removeStaleSocket() error {
	if _, err := os.Stat(s.socketPath); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if conn, err := net.DialTimeout("unix", s.socketPath, 200*time.Millisecond); err == nil {
		conn.Close()
		return fmt.Errorf("another shell is already listening on %s", s.socketPath)
	}
	if err := os.Remove(s.socketPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove stale socket: %w", err)
	}
	return nil
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.isShuttingDown() {
				return
			}
			s.logger.Warn("ipc accept error", "err", err)
			if errors.Is(err, net.ErrClosed) {
				return
			}
			continue
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConnection(conn)
		}()
	}
}

// handleConnection serves one newline-terminated request.
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	// Unblock reads and writes when the server stops.
	release := context.AfterFunc(s.ctx, func() { conn.Close() })
	defer release()

	if err := conn.SetReadDeadline(time.Now().Add(readTimeout)); err != nil {
		s.logger.Warn("ipc set deadline failed", "err", err)
		return
	}

	reader := bufio.NewReader(conn)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		if s.ctx.Err() == nil {
			s.logger.Warn("ipc read error", "err", err)
		}
		return
	}

	var resp *Response
	req, err := ParseRequest(data)
	if err != nil {
		resp = NewErrorResponse(fmt.Sprintf("invalid request: %v", err))
	} else {
		resp = s.handleCommand(s.ctx, req)
	}

	respData, err := resp.Marshal()
	if err != nil {
		s.logger.Warn("failed to marshal ipc response", "err", err)
		return
	}
	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.logger.Warn("failed to send ipc response", "err", err)
	}
}

func (s *Server) handleCommand(ctx context.Context, req *Request) *Response {
	if req.Command == CommandStatus {
		return s.handleStatus()
	}

	data, err := s.dispatcher.Invoke(ctx, string(req.Command), req.Payload)
	if err != nil {
		s.logger.Debug("ipc command failed", "command", req.Command, "err", err)
		return NewErrorResponse(err.Error())
	}
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func (s *Server) handleStatus() *Response {
	var status StatusData
	if s.status != nil {
		status = s.status()
	}
	status.Commands = append([]string{string(CommandStatus)}, s.dispatcher.Commands()...)
	status.UptimeSeconds = int64(time.Since(s.startTime).Seconds())

	resp, err := NewOKResponse(status)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func (s *Server) isShuttingDown() bool {
	s.shutdownMu.Lock()
	defer s.shutdownMu.Unlock()
	return s.shuttingDown
}

// Stop closes the listener, cancels requests in flight, waits for open
// connections and removes the socket.
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	if s.shuttingDown {
		s.shutdownMu.Unlock()
		return
	}
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	os.Remove(s.socketPath)
}
