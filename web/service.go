package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/zeptools/fichas/servers"
	"github.com/zeptools/fichas/svc"
	"go.uber.org/zap"
)

const DefaultShutdownTimeout = 10 * time.Second

// Service runs the HTTP server as a managed service
type Service struct {
	Ctx             context.Context    // Service Context
	Cancel          context.CancelFunc // Service Context CancelFunc
	Server          *http.Server
	ShutdownTimeout time.Duration
	mu              sync.Mutex
	state           int        // internal service state
	done            chan error // Shutdown Error Channel
	addr            net.Addr
	logger          *zap.Logger
}

var _ svc.Service = (*Service)(nil)

func NewService(parentCtx context.Context, addr string, router http.Handler, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	svcCtx, svcCancel := context.WithCancel(parentCtx)
	return &Service{
		Ctx:    svcCtx,
		Cancel: svcCancel,
		Server: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		ShutdownTimeout: DefaultShutdownTimeout,
		state:           svc.StateREADY,
		done:            make(chan error, 1),
		logger:          logger.Named("web"),
	}
}

func (s *Service) Name() string {
	return "WebService"
}

// Start binds the listen address. Bind errors are returned here, serve errors go to Done().
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != svc.StateREADY {
		return errors.New("web: cannot start, not ready")
	}
	listener, err := net.Listen("tcp", s.Server.Addr)
	if err != nil {
		return fmt.Errorf("web: listen %q: %w", s.Server.Addr, err)
	}
	s.addr = listener.Addr()
	s.state = svc.StateRUNNING
	go func() {
		s.done <- servers.Serve(s.Ctx, s.Server, listener, s.ShutdownTimeout, s.logger, nil)
	}()
	return nil
}

func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != svc.StateRUNNING {
		return
	}
	s.Cancel()
	s.state = svc.StateSTOPPED
}

func (s *Service) Done() <-chan error {
	return s.done
}

// Addr is the bound address once started
func (s *Service) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}
