// Package server exposes the odds and arbitrage endpoints over HTTP.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/outclass-odds/internal/arbitrage"
	"github.com/yourusername/outclass-odds/internal/logger"
	"github.com/yourusername/outclass-odds/internal/metrics"
	"github.com/yourusername/outclass-odds/internal/oddsapi"
)

// OddsFetcher is the source of raw events.
type OddsFetcher interface {
	FetchOdds(ctx context.Context, q oddsapi.Query) ([]arbitrage.RawEvent, error)
	HasAPIKey() bool
}

// Config holds the configuration for the API server.
type Config struct {
	ServiceName string
	Version     string
	Addr        string

	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	RequestTimeout time.Duration
	CORSOrigins    []string

	DefaultSport  string
	DefaultRegion string
	DefaultMarket string
	DefaultStake  float64

	MetricsEnabled bool
	MetricsPath    string

	Logger   *logrus.Logger
	Odds     OddsFetcher
	Analyzer *arbitrage.Analyzer
}

// Server serves the HTTP API.
type Server struct {
	cfg       Config
	logger    *logrus.Logger
	reqLogger *logger.RequestLogger
	validate  *validator.Validate
	odds      OddsFetcher
	analyzer  *arbitrage.Analyzer
	router    http.Handler

	server *http.Server
	mu     sync.RWMutex
	ready  bool
}

// NewServer creates a new API server. Zero-valued settings fall back to defaults.
func NewServer(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
		cfg.Logger.SetOutput(io.Discard)
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "outclass-odds"
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8000"
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 15 * time.Second
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 30 * time.Second
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = 60 * time.Second
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = cfg.WriteTimeout
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"*"}
	}
	if cfg.DefaultSport == "" {
		cfg.DefaultSport = "soccer_epl"
	}
	if cfg.DefaultRegion == "" {
		cfg.DefaultRegion = oddsapi.DefaultRegions
	}
	if cfg.DefaultMarket == "" {
		cfg.DefaultMarket = arbitrage.DefaultMarketKey
	}
	if cfg.DefaultStake <= 0 {
		cfg.DefaultStake = arbitrage.DefaultStake
	}
	if cfg.MetricsPath == "" {
		cfg.MetricsPath = "/metrics"
	}
	if cfg.Analyzer == nil {
		cfg.Analyzer = arbitrage.NewAnalyzer(cfg.Logger)
	}

	s := &Server{
		cfg:       cfg,
		logger:    cfg.Logger,
		reqLogger: logger.NewRequestLogger(cfg.Logger),
		validate:  validator.New(),
		odds:      cfg.Odds,
		analyzer:  cfg.Analyzer,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(chimiddleware.RealIP)
	r.Use(s.logRequests)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(s.cfg.RequestTimeout))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Get("/live", s.handleLive)
	r.Get("/ready", s.handleReady)
	r.Get("/config", s.handleConfig)
	r.Get("/odds", s.handleOdds)
	r.Post("/arbitrage", s.handleArbitrage)
	r.Post("/arbitrage_debug", s.handleArbitrageDebug)

	if s.cfg.MetricsEnabled {
		r.Handle(s.cfg.MetricsPath, metrics.Handler())
	}

	return r
}

// Handler returns the HTTP handler with all routes and middleware.
func (s *Server) Handler() http.Handler {
	return s.router
}

// SetReady marks the server as ready to accept traffic.
func (s *Server) SetReady(ready bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = ready
}

// IsReady returns whether the server is ready.
func (s *Server) IsReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Start serves until ctx is cancelled or the listener fails. The server is
// marked ready once it is listening.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	s.server = &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}
	srv := s.server
	s.mu.Unlock()

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.WithFields(logrus.Fields{
			"addr":    s.cfg.Addr,
			"service": s.cfg.ServiceName,
		}).Info("API server starting")
		serverErrors <- srv.ListenAndServe()
	}()
	s.SetReady(true)

	select {
	case err := <-serverErrors:
		s.SetReady(false)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		return s.Shutdown()
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	s.SetReady(false)

	s.mu.RLock()
	srv := s.server
	s.mu.RUnlock()
	if srv == nil {
		return nil
	}

	s.logger.Info("API server shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(ctx)
}
