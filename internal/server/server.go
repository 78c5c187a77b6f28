package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/csrf"
	"github.com/jonathan/smart-ats/internal/analysis"
	"github.com/jonathan/smart-ats/internal/rendering"
	"github.com/jonathan/smart-ats/internal/server/middleware"
	"github.com/jonathan/smart-ats/internal/session"
	"github.com/sirupsen/logrus"
)

// DefaultMaxUploadBytes bounds the resume file when Config leaves it unset.
const DefaultMaxUploadBytes = 10 << 20

// formOverhead is the room a request body gets beyond the file limit for the
// job description and multipart framing.
const formOverhead = 1 << 20

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	handler    http.Handler

	analyzer *analysis.Analyzer
	store    *session.Store
	tokens   *session.TokenService
	pages    *rendering.PageRenderer
	validate *validator.Validate
	logger   *logrus.Logger

	credentialNotice string
	maxUploadBytes   int64
	sessionTTL       time.Duration
	csrfKey          []byte
	csrfSecure       bool
	now              func() time.Time
}

// Config holds server configuration
type Config struct {
	Port     int
	Analyzer *analysis.Analyzer
	Logger   *logrus.Logger

	// CredentialNotice is shown on every page while the model credential is missing.
	CredentialNotice string

	SessionSecret  string
	SessionTTL     time.Duration
	CSRFKey        string
	CSRFSecure     bool
	MaxUploadBytes int64
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	if cfg.Analyzer == nil {
		return nil, fmt.Errorf("analyzer is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}

	pages, err := rendering.NewPageRenderer()
	if err != nil {
		return nil, err
	}

	tokens, err := session.NewTokenService(cfg.SessionSecret, cfg.SessionTTL)
	if err != nil {
		return nil, err
	}

	maxUpload := cfg.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = DefaultMaxUploadBytes
	}

	s := &Server{
		analyzer:         cfg.Analyzer,
		store:            session.NewStore(cfg.SessionTTL),
		tokens:           tokens,
		pages:            pages,
		validate:         validator.New(),
		logger:           logger,
		credentialNotice: cfg.CredentialNotice,
		maxUploadBytes:   maxUpload,
		sessionTTL:       cfg.SessionTTL,
		csrfSecure:       cfg.CSRFSecure,
		now:              time.Now,
	}
	if cfg.CSRFKey != "" {
		s.csrfKey = []byte(cfg.CSRFKey)
	}

	s.handler = s.routes()
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // Model calls have no timeout of their own
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(s.withLogging)
	r.Use(chimw.Recoverer)

	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Sessions(s.store, s.tokens, middleware.CookieConfig{
			Secure: s.csrfSecure,
			MaxAge: s.sessionTTL,
		}, s.logger))
		r.Use(s.limitBody)

		// HTML form routes
		r.Group(func(r chi.Router) {
			if s.csrfKey != nil {
				r.Use(s.withCSRF())
			}
			r.Get("/", s.handleIndex)
			r.Post("/analyze", s.handleAnalyze)
			r.Get("/panels/{panel}", s.handlePanel)
			r.Get("/download", s.handleDownload)
			r.Post("/reset", s.handleReset)
		})

		// JSON API
		r.Route("/api", func(r chi.Router) {
			r.Use(cors.Handler(cors.Options{
				AllowedOrigins: []string{"*"},
				AllowedMethods: []string{"GET", "POST", "OPTIONS"},
				AllowedHeaders: []string{"Content-Type"},
				MaxAge:         300,
			}))
			r.Post("/analyze", s.handleAPIAnalyze)
			r.Get("/result", s.handleAPIResult)
		})
	})

	return r
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	s.store.StartJanitor(time.Minute, func(removed, live int) {
		s.logger.WithFields(logrus.Fields{
			"removed": removed,
			"live":    live,
		}).Debug("Expired sessions swept")
	})

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithFields(logrus.Fields{
			"addr":  s.httpServer.Addr,
			"model": s.analyzer.Model(),
		}).Info("Server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		s.store.Close()
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}
	s.logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.store.Close()
	s.logger.Info("Server stopped")
	return nil
}

// withCSRF protects form routes. Requests that did not arrive over TLS are
// marked plaintext so origin checks do not demand an https referer.
func (s *Server) withCSRF() func(http.Handler) http.Handler {
	protect := csrf.Protect(s.csrfKey,
		csrf.Secure(s.csrfSecure),
		csrf.Path("/"),
		csrf.ErrorHandler(http.HandlerFunc(s.handleCSRFFailure)),
	)
	return func(next http.Handler) http.Handler {
		protected := protect(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.TLS == nil && !s.csrfSecure {
				r = csrf.PlaintextHTTPRequest(r)
			}
			protected.ServeHTTP(w, r)
		})
	}
}

// limitBody caps request bodies before anything, CSRF included, parses them.
func (s *Server) limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes+formOverhead)
		}
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.logger.WithFields(logrus.Fields{
			"request_id":  chimw.GetReqID(r.Context()),
			"method":      r.Method,
			"path":        r.URL.Path,
			"remote":      r.RemoteAddr,
			"status":      ww.Status(),
			"bytes":       ww.BytesWritten(),
			"duration_ms": time.Since(start).Milliseconds(),
		}).Info("Request completed")
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.WithError(err).Error("Error encoding JSON response")
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, err error) {
	s.jsonResponse(w, HTTPStatus(err), map[string]string{
		"error":   ErrorKind(err),
		"message": s.UserMessage(err),
	})
}
