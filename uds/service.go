// Package uds serves a line-based admin console over a unix domain socket.
package uds

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/zeptools/fichas/svc"
	"go.uber.org/zap"
)

// DefaultMaxLineBytes bounds one command line
const DefaultMaxLineBytes = 1 << 20

type Service struct {
	Ctx        context.Context    // Service Context
	cancel     context.CancelFunc // Service Context CancelFunc
	mu         sync.Mutex
	state      int        // internal service state
	done       chan error // Shutdown Error Channel
	SocketPath string
	CmdMap     map[string]CmdHnd
	listener   net.Listener
	conns      sync.WaitGroup
	logger     *zap.Logger

	// MaxLineBytes bounds each command line; a longer line ends the connection
	MaxLineBytes int
}

var _ svc.Service = (*Service)(nil)

func (s *Service) Name() string {
	return "UDSService"
}

func NewService(parentCtx context.Context, sockPath string, cmdMap map[string]CmdHnd, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	svcCtx, svcCancel := context.WithCancel(parentCtx)
	return &Service{
		Ctx:        svcCtx,
		cancel:     svcCancel,
		state:      svc.StateREADY,
		done:       make(chan error, 1),
		SocketPath: sockPath,
		CmdMap:     cmdMap,
		logger:     logger.Named("uds"),

		MaxLineBytes: DefaultMaxLineBytes,
	}
}

// Start the unix socket service in the background.
// Bootstrapping errors are returned immediately.
// Runtime errors are pushed into Done().
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != svc.StateREADY {
		return errors.New("uds: cannot start, not ready")
	}
	// clean up old socket if any
	_ = os.Remove(s.SocketPath)
	listener, err := net.Listen("unix", s.SocketPath)
	if err != nil {
		return fmt.Errorf("uds: listen(%q): %w", s.SocketPath, err)
	}
	// tighten permissions immediately after binding
	if err = os.Chmod(s.SocketPath, 0600); err != nil {
		_ = listener.Close()
		_ = os.Remove(s.SocketPath)
		return fmt.Errorf("uds: chmod(%q): %w", s.SocketPath, err)
	}
	s.listener = listener
	s.state = svc.StateRUNNING
	go s.run()
	return nil
}

func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != svc.StateRUNNING {
		return
	}
	s.cancel()
	s.state = svc.StateSTOPPED
	s.logger.Info("service stopped")
}

func (s *Service) Done() <-chan error {
	return s.done
}

// run - internal run loop
func (s *Service) run() {
	go func() {
		<-s.Ctx.Done()
		if err := s.listener.Close(); err != nil {
			s.logger.Error("cannot close listener", zap.Error(err))
		}
	}()

	s.logger.Info("listening", zap.String("socket", s.SocketPath))
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				s.conns.Wait()
				// To avoid TOCTOU race, just try removing before checking if it exists.
				if err = os.Remove(s.SocketPath); err != nil && !os.IsNotExist(err) {
					s.logger.Error("cannot remove socket file", zap.Error(err))
				}
				s.done <- nil // clean shutdown
				return
			}
			// transient errors don't kill the loop
			s.logger.Warn("accept failed", zap.Error(err))
			continue
		}
		s.conns.Add(1)
		go s.handleConn(conn)
	}
}

func (s *Service) handleConn(c net.Conn) {
	defer s.conns.Done()
	stop := context.AfterFunc(s.Ctx, func() { _ = c.Close() })
	defer stop()
	defer func() {
		if err := c.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			s.logger.Warn("closing connection", zap.Error(err))
		}
	}()

	scanner := bufio.NewScanner(c)
	scanner.Buffer(make([]byte, 0, min(4096, s.MaxLineBytes)), s.MaxLineBytes)
	for scanner.Scan() {
		args := strings.Fields(scanner.Text())
		if len(args) == 0 {
			continue
		}
		switch args[0] {
		case "quit":
			return
		case "help":
			s.writeHelp(c)
			continue
		}
		cmd, ok := s.CmdMap[args[0]]
		if !ok {
			_, _ = fmt.Fprintf(c, "unknown command: %s\n", args[0])
			continue
		}
		s.logger.Info("command", zap.Strings("args", args))
		if err := cmd.Fn(s.Ctx, args[1:], c); err != nil {
			s.logger.Warn("command failed", zap.String("cmd", args[0]), zap.Error(err))
			_, _ = fmt.Fprintf(c, "error: %v\n", err)
		}
	}
	switch err := scanner.Err(); {
	case errors.Is(err, bufio.ErrTooLong):
		s.logger.Warn("command line too long", zap.Int("max_bytes", s.MaxLineBytes))
		_, _ = fmt.Fprintf(c, "error: line longer than %d bytes\n", s.MaxLineBytes)
	case err != nil && !errors.Is(err, net.ErrClosed):
		s.logger.Warn("read error", zap.Error(err))
	}
}

func (s *Service) writeHelp(w io.Writer) {
	keys := make([]string, 0, len(s.CmdMap))
	for k := range s.CmdMap {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		cmd := s.CmdMap[k]
		usage := cmd.Usage
		if usage == "" {
			usage = k
		}
		_, _ = fmt.Fprintf(w, "%-36s %s\n", usage, cmd.Desc)
	}
	_, _ = fmt.Fprintf(w, "%-36s %s\n", "quit", "close this connection")
}
