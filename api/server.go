// Package api provides the HTTP server for clientdesk.
//
// It serves the login gate, client directory, client detail and portfolio
// pages, a JSON view of the portfolio under /api/v1, and a WebSocket feed
// that keeps an open portfolio page current.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/seenimoa/clientdesk/internal/auth"
	"github.com/seenimoa/clientdesk/internal/config"
	"github.com/seenimoa/clientdesk/internal/datasource"
	"github.com/seenimoa/clientdesk/internal/logging"
	"github.com/seenimoa/clientdesk/internal/portfolio"
	"github.com/seenimoa/clientdesk/internal/report"
	"github.com/seenimoa/clientdesk/pkg/utils"
	"github.com/seenimoa/clientdesk/web"
)

// Server is the HTTP server.
type Server struct {
	router  chi.Router
	cfg     *config.Config
	source  datasource.DataSource
	loader  *portfolio.Loader
	auth    auth.Authenticator
	pages   *web.Pages
	report  report.Config
	wsHub   *WSHub
	logger  zerolog.Logger
	version string
	live    bool // serve the live-update script on portfolio pages
}

// Option customises a Server.
type Option func(*Server)

// WithDataSource replaces the HTTP backend client.
func WithDataSource(ds datasource.DataSource) Option {
	return func(s *Server) { s.source = ds }
}

// WithAuthenticator replaces the static credential check.
func WithAuthenticator(a auth.Authenticator) Option {
	return func(s *Server) { s.auth = a }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithVersion sets the version reported by /health.
func WithVersion(v string) Option {
	return func(s *Server) { s.version = v }
}

// WithLiveUpdates controls whether portfolio pages open the WebSocket feed.
func WithLiveUpdates(enabled bool) Option {
	return func(s *Server) { s.live = enabled }
}

// NewServer creates a configured server with all routes and middleware.
func NewServer(cfg *config.Config, opts ...Option) (*Server, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	s := &Server{
		cfg:     cfg,
		logger:  zerolog.Nop(),
		version: "dev",
		live:    true,
		wsHub:   NewWSHub(),
		report:  report.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.source == nil {
		s.source = datasource.NewHTTPSource(cfg.Backend.BaseURL,
			datasource.WithTimeout(cfg.Backend.Timeout()),
			datasource.WithRateLimit(cfg.Backend.RateLimit),
			datasource.WithToken(cfg.Backend.Token),
			datasource.WithLogger(s.logger.With().Str("component", "datasource").Logger()),
		)
	}
	if s.auth == nil {
		s.auth = auth.NewStatic(cfg.Auth.Username, cfg.Auth.Password)
	}

	policy := portfolio.PolicyStrict
	if cfg.Portfolio.DegradeOnError {
		policy = portfolio.PolicyDegrade
	}
	s.loader = portfolio.NewLoader(s.source, policy, s.logger.With().Str("component", "portfolio").Logger())

	pages, err := web.LoadPages()
	if err != nil {
		return nil, fmt.Errorf("loading templates: %w", err)
	}
	s.pages = pages

	s.router = s.buildRouter()
	return s, nil
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// Hub returns the WebSocket hub.
func (s *Server) Hub() *WSHub {
	return s.wsHub
}

// ListenAndServe starts the HTTP server and blocks until SIGINT/SIGTERM,
// then shuts down gracefully.
func (s *Server) ListenAndServe(addr string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.Serve(ctx, addr)
}

// Serve runs the server until ctx is done.
func (s *Server) Serve(ctx context.Context, addr string) error {
	// No WriteTimeout: backend fetches carry no deadline unless configured.
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go s.wsHub.Run()
	defer s.wsHub.Stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Str("backend", s.cfg.Backend.BaseURL).Msg("listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("HTTP server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(corsOptions(s.cfg.Server.CORSOrigins)))

	r.Get("/health", s.handleHealth)

	// Pages
	r.Get("/", s.handleLoginForm)
	r.Post("/", s.handleLogin)
	r.Get("/client-list", s.handleClientList)
	r.Post("/client-list/run-script", s.handleRunScript)
	r.Get("/client/{id}", s.handleClient)
	r.Get("/portfolio/{id}", s.handlePortfolio)

	// WebSocket
	r.Get("/ws/portfolio", s.handleWebSocket)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/clients", s.handleAPIClients)
		r.Get("/clients/{id}", s.handleAPIClient)
		r.Get("/portfolio/{id}/view", s.handleAPIPortfolioView)

		r.Get("/config", s.handleGetConfig)
		r.Get("/config/secrets", s.handleGetSecrets)
	})

	static := http.StripPrefix("/static/", http.FileServerFS(web.StaticFS()))
	r.Get("/static/*", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		static.ServeHTTP(w, r)
	})

	return r
}

// corsOptions allows any origin without credentials unless origins are
// configured. No route relies on cookies.
func corsOptions(origins []string) cors.Options {
	opts := cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}
	if len(origins) > 0 {
		opts.AllowedOrigins = origins
		opts.AllowCredentials = true
	}
	return opts
}

// ============================================================
// JSON API
// ============================================================

// APIResponse is the standard JSON envelope.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"status":     "ok",
			"version":    s.version,
			"backend":    s.cfg.Backend.BaseURL,
			"policy":     s.loader.Policy().String(),
			"ws_clients": s.wsHub.ClientCount(),
			"time":       utils.FormatDateTime(time.Now()),
		},
	})
}

func (s *Server) handleAPIClients(w http.ResponseWriter, r *http.Request) {
	clients, err := s.source.Clients(r.Context())
	if err != nil {
		s.logErr(r, err).Msg("fetching clients")
		writeError(w, http.StatusBadGateway, msgClientsFailed)
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: clients})
}

func (s *Server) handleAPIClient(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	c, err := s.source.Client(r.Context(), id)
	switch {
	case err != nil:
		s.logErr(r, err).Str("client_id", id).Msg("fetching client")
		writeError(w, clientErrorStatus(err), msgClientFailed)
	case c == nil:
		writeError(w, http.StatusNotFound, msgClientNotFound)
	default:
		writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: c})
	}
}

func (s *Server) handleAPIPortfolioView(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	v, err := s.loader.View(r.Context(), id)
	if err != nil {
		s.logErr(r, err).Str("client_id", id).Msg("loading portfolio")
		writeError(w, http.StatusBadGateway, portfolio.FailureMessage)
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: v})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, APIResponse{
		Success: false,
		Error:   msg,
	})
}

// logErr starts an error log event tagged with the request id.
func (s *Server) logErr(r *http.Request, err error) *zerolog.Event {
	return s.logger.Error().Err(err).
		Str("request_id", middleware.GetReqID(r.Context())).
		Str("path", r.URL.Path)
}

// clientErrorStatus maps a backend error to the status of our response.
func clientErrorStatus(err error) int {
	if datasource.IsNotFound(err) {
		return http.StatusNotFound
	}
	return http.StatusBadGateway
}
