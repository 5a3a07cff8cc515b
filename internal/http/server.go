package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/nicolas-cahorel/P3-Mission/internal/config"
	"github.com/nicolas-cahorel/P3-Mission/internal/domain"
	"github.com/nicolas-cahorel/P3-Mission/internal/review"
)

// HealthChecker reports whether a backing dependency is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Server wires HTTP routing, middleware, and handlers.
type Server struct {
	cfg        config.Config
	reviews    *review.Store
	restaurant *domain.Restaurant
	now        func() time.Time
	health     HealthChecker
	metrics    *metrics
	validate   *validator.Validate
	logger     *zap.Logger
	router     chi.Router
	httpSrv    *http.Server
}

// Option customises a Server.
type Option func(*Server)

// WithRestaurant serves restaurant details on GET /restaurant. Without it
// the route answers 404.
func WithRestaurant(restaurant domain.Restaurant) Option {
	return func(s *Server) {
		s.restaurant = &restaurant
	}
}

// WithClock overrides the clock used for the current-day label.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// New constructs the HTTP server with base middleware and routes. health may
// be nil when no database is in use.
func New(cfg config.Config, reviews *review.Store, health HealthChecker, logger *zap.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	s := &Server{
		cfg:      cfg,
		reviews:  reviews,
		now:      time.Now,
		health:   health,
		metrics:  newMetrics(reviews),
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
		router:   r,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.metrics.follow(reviews)
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.Get("/healthz", s.handleHealthz)
	s.router.Handle("/metrics", s.metrics.handler())
	s.router.Get("/restaurant", s.handleGetRestaurant)
	s.router.Route("/reviews", func(r chi.Router) {
		r.Get("/", s.handleListReviews)
		r.Post("/", s.handleSubmitReview)
		r.Get("/stats", s.handleGetStats)
		r.Get("/stream", s.handleStreamReviews)
	})
}

// Handler exposes the router, mainly for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start boots the HTTP server and blocks until ctx is done or serving fails.
func (s *Server) Start(ctx context.Context) error {
	s.httpSrv = &http.Server{
		Addr:         ":" + s.cfg.Port,
		Handler:      s.router,
		ReadTimeout:  time.Duration(s.cfg.ReadTimeoutSecs) * time.Second,
		WriteTimeout: time.Duration(s.cfg.WriteTimeoutSecs) * time.Second,
		IdleTimeout:  time.Duration(s.cfg.IdleTimeoutSecs) * time.Second,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http: listening", zap.String("addr", s.httpSrv.Addr))
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.httpSrv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := s.health.HealthCheck(ctx); err != nil {
			s.logger.Warn("healthz: dependency unavailable", zap.Error(err))
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
			return
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// requestLogger logs one line per request once the handler returns.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			started := time.Now()
			defer func() {
				logger.Info("http: request",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("duration", time.Since(started)),
					zap.String("request_id", middleware.GetReqID(r.Context())),
				)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
