package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/nerrad567/gray-logic-googlehome/internal/entity"
	"github.com/nerrad567/gray-logic-googlehome/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-googlehome/internal/infrastructure/logging"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// ChannelEntityStateChanged is the WebSocket channel carrying entity snapshots.
const ChannelEntityStateChanged = "entity.state_changed"

// Coordinator is the part of the device coordinator the API exposes.
type Coordinator interface {
	Refresh(ctx context.Context) error
	LastUpdateSuccess() bool
	LastUpdate() time.Time
	LastError() error
}

// HealthChecker is implemented by infrastructure clients reported on /health.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config      config.APIConfig
	WS          config.WebSocketConfig
	Logger      *logging.Logger
	Registry    *entity.Registry
	Coordinator Coordinator              // optional: enables POST /coordinator/refresh
	Components  map[string]HealthChecker // optional: reported by /health
	Version     string
}

// Server is the HTTP API server.
//
// It manages the HTTP listener, routes, middleware and WebSocket hub.
// The server is created with New() and started with Start().
type Server struct {
	cfg         config.APIConfig
	wsCfg       config.WebSocketConfig
	logger      *logging.Logger
	registry    *entity.Registry
	coordinator Coordinator
	components  map[string]HealthChecker
	version     string

	server         *http.Server
	hub            *Hub
	cancel         context.CancelFunc
	removeListener func()
	mu             sync.Mutex
}

// New creates a new API server with the given dependencies.
// The server is not started until Start() is called.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Registry == nil {
		return nil, fmt.Errorf("entity registry is required")
	}

	return &Server{
		cfg:         deps.Config,
		wsCfg:       deps.WS,
		logger:      deps.Logger,
		registry:    deps.Registry,
		coordinator: deps.Coordinator,
		components:  deps.Components,
		version:     deps.Version,
		hub:         NewHub(deps.WS, deps.Logger, deps.Registry),
	}, nil
}

// Start begins listening for HTTP connections.
//
// It starts the WebSocket hub, relays registry state changes to it and
// launches the HTTP listener in a background goroutine. The server can be
// stopped with Close().
func (s *Server) Start(ctx context.Context) error {
	srvCtx, cancel := context.WithCancel(ctx)

	go s.hub.Run(srvCtx)
	remove := s.relayStateChanges()

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           s.buildRouter(),
		ReadTimeout:       s.cfg.Timeouts.GetReadTimeout(),
		ReadHeaderTimeout: s.cfg.Timeouts.GetReadTimeout(),
		WriteTimeout:      s.cfg.Timeouts.GetWriteTimeout(),
		IdleTimeout:       s.cfg.Timeouts.GetIdleTimeout(),
	}

	s.mu.Lock()
	s.cancel = cancel
	s.removeListener = remove
	s.server = server
	s.mu.Unlock()

	go func() {
		var err error
		if s.cfg.TLS.Enabled {
			s.logger.Info("API server starting with TLS",
				"address", server.Addr,
				"cert", s.cfg.TLS.CertFile,
			)
			err = server.ListenAndServeTLS(s.cfg.TLS.CertFile, s.cfg.TLS.KeyFile)
		} else {
			s.logger.Info("API server starting", "address", server.Addr)
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the API server, waiting up to 10 seconds for
// in-flight requests.
func (s *Server) Close() error {
	s.mu.Lock()
	server, cancel, remove := s.server, s.cancel, s.removeListener
	s.server, s.cancel, s.removeListener = nil, nil, nil
	s.mu.Unlock()

	if server == nil {
		return nil
	}
	if remove != nil {
		remove()
	}
	if cancel != nil {
		cancel()
	}

	ctx, done := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer done()

	s.logger.Info("API server shutting down")
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// relayStateChanges broadcasts every registry state change to WebSocket
// subscribers. The returned function stops the relay.
func (s *Server) relayStateChanges() func() {
	return s.registry.AddListener(func(snap entity.StateSnapshot) {
		s.hub.Broadcast(ChannelEntityStateChanged, snap)
	})
}

// HealthCheck verifies the API server is running.
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.server == nil {
		return fmt.Errorf("api server not started")
	}
	return nil
}
