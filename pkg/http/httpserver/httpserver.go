package httpserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"time"
)

const (
	defaultShutdownTimeout = time.Second * 60
	defaultReadTimeout     = time.Second * 60
	defaultWriteTimeout    = time.Second * 60
)

var ErrNotListening = errors.New("http server is not listening")

type serverConfig struct {
	readTimeout     time.Duration
	writeTimeout    time.Duration
	shutdownTimeout time.Duration
	handler         http.Handler
	errorLog        io.Writer
}

type HTTPServer struct {
	addr          *net.TCPAddr
	listener      *net.TCPListener
	server        *http.Server
	cfg           *serverConfig
	closer        chan struct{}
	readyCallback func(net.Addr)
}

type Option func(*HTTPServer) error

func WithShutdownTimeout(timeout time.Duration) Option {
	return func(s *HTTPServer) error {
		s.cfg.shutdownTimeout = timeout
		return nil
	}
}

func WithReadTimeout(timeout time.Duration) Option {
	return func(s *HTTPServer) error {
		s.cfg.readTimeout = timeout
		return nil
	}
}

func WithWriteTimeout(timeout time.Duration) Option {
	return func(s *HTTPServer) error {
		s.cfg.writeTimeout = timeout
		return nil
	}
}

func WithHandler(handler http.Handler) Option {
	return func(s *HTTPServer) error {
		s.cfg.handler = handler
		return nil
	}
}

// WithErrorLog redirects errors from accepting connections and from handlers to w
func WithErrorLog(w io.Writer) Option {
	return func(s *HTTPServer) error {
		s.cfg.errorLog = w
		return nil
	}
}

func WithReadySignal(cb func(net.Addr)) Option {
	return func(s *HTTPServer) error {
		s.readyCallback = cb
		return nil
	}
}

func New(addr string, opts ...Option) (*HTTPServer, error) {
	tcpAddr, err := net.ResolveTCPAddr("tcp", addr)
	if err != nil {
		return nil, err
	}
	cfg := &serverConfig{
		writeTimeout:    defaultWriteTimeout,
		readTimeout:     defaultReadTimeout,
		shutdownTimeout: defaultShutdownTimeout,
	}
	svr := &http.Server{Addr: addr} // nolint: gosec
	server := &HTTPServer{
		addr:   tcpAddr,
		cfg:    cfg,
		server: svr,
		closer: make(chan struct{}),
	}
	for _, opt := range opts {
		if optErr := opt(server); optErr != nil {
			return nil, optErr
		}
	}
	svr.WriteTimeout = cfg.writeTimeout
	svr.ReadTimeout = cfg.readTimeout
	svr.ReadHeaderTimeout = cfg.readTimeout
	svr.Handler = cfg.handler
	if cfg.errorLog != nil {
		svr.ErrorLog = log.New(cfg.errorLog, "", 0)
	}
	return server, nil
}

// Listen binds the listening socket and fires the ready signal.
func (s *HTTPServer) Listen() error {
	listener, err := net.ListenTCP("tcp", s.addr)
	if err != nil {
		return err
	}
	s.listener = listener
	if s.readyCallback != nil {
		s.readyCallback(listener.Addr())
	}
	return nil
}

// Serve accepts connections on the bound socket until the server is stopped.
func (s *HTTPServer) Serve() error {
	if s.listener == nil {
		return ErrNotListening
	}
	defer s.listener.Close()

	fatal := make(chan error, 1)
	go func() {
		if err := s.server.Serve(s.listener); err != nil {
			fatal <- err
		}
	}()

	select {
	case err := <-fatal:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-s.closer:
		return nil
	}
}

func (s *HTTPServer) ListenAndServe() error {
	if err := s.Listen(); err != nil {
		return err
	}
	return s.Serve()
}

// Start binds the socket and serves in the background.
// Binding errors are returned right away, onExit is called if serving stops unexpectedly.
func (s *HTTPServer) Start(onExit func(error)) error {
	if err := s.Listen(); err != nil {
		return err
	}
	go func() {
		if err := s.Serve(); err != nil {
			onExit(err)
		}
	}()
	return nil
}

func (s *HTTPServer) ListenAddr() net.Addr {
	if s.listener == nil {
		return s.addr
	}
	return s.listener.Addr()
}

func (s *HTTPServer) Stop(ctx context.Context) error {
	close(s.closer)
	stopCtx, cancel := context.WithTimeout(ctx, s.cfg.shutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(stopCtx); err != nil {
		return fmt.Errorf("http server: shutdown %s: %w", s.addr, err)
	}
	return nil
}
