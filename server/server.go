package server

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/timeseer/forecastkit"
	"github.com/timeseer/forecastkit/engine"
)

// Server hosts one Analyzer per uploaded dataset, keyed by a session
// id. Sessions live in memory only and vanish on restart.
type Server struct {
	cfg      *Config
	logger   *slog.Logger
	client   engine.Client
	hub      *Hub
	validate *validator.Validate

	mu       sync.Mutex
	sessions map[string]*forecastkit.Analyzer

	httpServer *http.Server
}

// New builds a Server around the given engine client. A nil client
// defaults to an HTTP client for the configured engine URL.
func New(cfg *Config, logger *slog.Logger, client engine.Client) *Server {
	if client == nil {
		client = engine.NewHTTPClient(cfg.EngineURL, cfg.EngineTimeout)
	}
	s := &Server{
		cfg:      cfg,
		logger:   logger,
		client:   client,
		hub:      NewHub(logger),
		validate: validator.New(),
		sessions: make(map[string]*forecastkit.Analyzer),
	}
	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Routes(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return s
}

// Routes assembles the chi router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]string{"status": "ok"})
	})
	r.Get("/ws", s.hub.ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Post("/datasets", s.CreateDataset)
		r.Route("/datasets/{id}", func(r chi.Router) {
			r.Use(s.SessionCtx)
			r.Get("/", s.GetDataset)
			r.Get("/series/{column}", s.GetSeries)
			r.Get("/stats/{column}", s.GetStats)
			r.Post("/forecast", s.RunForecast)
			r.Get("/chart/{column}", s.GetChart)
		})
	})
	return r
}

// ListenAndServe runs the server until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", slog.String("addr", s.cfg.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := uuid.NewString()
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			slog.String("request_id", reqID),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Duration("duration", time.Since(start)),
		)
	})
}

func (s *Server) newSession() (string, *forecastkit.Analyzer) {
	opt := forecastkit.NewDefaultOptions()
	opt.TrainFraction = s.cfg.TrainFraction
	opt.EngineTimeout = s.cfg.EngineTimeout
	opt.Observer = s.hub.Observer()

	id := uuid.NewString()
	a := forecastkit.NewAnalyzer(s.client, opt)

	s.mu.Lock()
	s.sessions[id] = a
	s.mu.Unlock()
	return id, a
}

func (s *Server) session(id string) *forecastkit.Analyzer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[id]
}

// SessionCtx rejects requests for unknown or malformed session ids.
func (s *Server) SessionCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if _, err := uuid.Parse(id); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, newAPIError(http.StatusBadRequest, "INVALID_SESSION_ID", "session id must be a uuid"))
			return
		}
		if s.session(id) == nil {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, newAPIError(http.StatusNotFound, "SESSION_NOT_FOUND", "unknown dataset session"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func sessionID(r *http.Request) string {
	return chi.URLParam(r, "id")
}

func columnParam(r *http.Request) string {
	col := chi.URLParam(r, "column")
	if decoded, err := url.PathUnescape(col); err == nil {
		return decoded
	}
	return col
}
