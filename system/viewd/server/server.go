package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/signadot/viewd/config"
)

// Server represents the viewd server.
type Server struct {
	Spec Spec

	// Hub manages view watchers
	Hub *WatchHub

	upgrader websocket.Upgrader
	locks    sync.Map // view name -> *sync.Mutex
}

// New creates a new Server instance.
func New(spec *Spec) *Server {
	if spec.Log == nil {
		spec.Log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slogLevel(),
		}))
	}
	if spec.Config == nil {
		spec.Config = config.DefaultConfig()
	}
	if spec.Composer != nil && spec.Composer.Log == nil {
		spec.Composer.Log = spec.Log
	}
	return &Server{
		Spec: *spec,
		Hub:  NewWatchHub(),
	}
}

func slogLevel() slog.Level {
	if os.Getenv("DEBUG") != "" {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// Handler returns the HTTP handler of the API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /views/{name}", s.handlePutView)
	mux.HandleFunc("GET /views/{name}", s.handleGetView)
	mux.HandleFunc("GET /views/{name}/watch", s.handleWatchView)
	mux.HandleFunc("POST /validate", s.handleValidate)
	return mux
}

// Serve serves the API on l until ctx is done.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	hs := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	errc := make(chan error, 1)
	go func() {
		errc <- hs.Serve(l)
	}()
	s.Spec.Log.Info("serving", "addr", l.Addr().String())
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.Hub.Close()
	if err := hs.Shutdown(shutCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ListenAndServe listens on the configured address and serves until ctx
// is done.
func (s *Server) ListenAndServe(ctx context.Context) error {
	l, err := net.Listen("tcp", s.Spec.Config.Listen)
	if err != nil {
		return err
	}
	return s.Serve(ctx, l)
}
