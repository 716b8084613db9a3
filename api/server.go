package api

import (
	"context"
	"net"
	"net/http"
	"slices"
	"time"

	"github.com/ckgxrg/dwsh/backend"
	"github.com/ckgxrg/dwsh/config"
	"github.com/ckgxrg/dwsh/logger"
	"github.com/ckgxrg/dwsh/status"
)

type Server struct {
	mux         *http.ServeMux
	config      *config.ApiConfig
	backend     *backend.Backend
	poller      *status.Poller
	broadcaster *backend.Broadcaster
}

// NewServer wires the routes. It returns nil when the API is disabled. The
// server takes over the poller's event channel: it must be the only reader.
func NewServer(ctx context.Context, cfg *config.ApiConfig, b *backend.Backend, p *status.Poller) *Server {
	if cfg == nil || !cfg.Enabled || p == nil {
		return nil
	}
	if b == nil {
		b = &backend.Backend{}
	}

	server := &Server{
		mux:         http.NewServeMux(),
		config:      cfg,
		backend:     b,
		poller:      p,
		broadcaster: backend.NewBroadcaster(ctx, p.Events()),
	}
	server.register()
	return server
}

func (s *Server) Handler() http.Handler {
	var handler http.Handler = s.mux
	if s.config.CORS != nil {
		handler = corsMiddleware(s.config.CORS)(handler)
	}
	return handler
}

func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.config.Listen,
		Handler: s.Handler(),
		// Derive request contexts from ctx so that long-lived handlers
		// (SSE, WebSocket) exit on shutdown without waiting for the timeout.
		BaseContext: func(_ net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Info("[api] server %s shutdown error: %v", srv.Addr, err)
		}
	}()

	logger.Info("[api] http server running on %s", srv.Addr)
	return srv.ListenAndServe()
}

func (s *Server) register() {
	// 404 on root and every unmatched path
	s.mux.HandleFunc("/", http.NotFound)

	s.registerServerRoutes()
	s.registerStatusRoutes()
	s.registerSessionRoutes()
	s.registerEventRoutes()
}

func corsMiddleware(cfg *config.CORSConfig) func(http.Handler) http.Handler {
	wildcard := slices.Contains(cfg.Origins, "*")
	logger.Info("[api] CORS enabled, origins: %v", cfg.Origins)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" {
				if wildcard {
					w.Header().Set("Access-Control-Allow-Origin", "*")
				} else if slices.Contains(cfg.Origins, origin) {
					w.Header().Set("Access-Control-Allow-Origin", origin)
					w.Header().Add("Vary", "Origin")
				}
			}

			if r.Method == http.MethodOptions {
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
