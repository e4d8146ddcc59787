// Package server provides the HTTP server and routing for Holdview.
package server

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/mgalanis/holdview/internal/config"
	"github.com/mgalanis/holdview/internal/datasource"
	"github.com/mgalanis/holdview/internal/modules/analyzer"
	analyzerhandlers "github.com/mgalanis/holdview/internal/modules/analyzer/handlers"
	"github.com/mgalanis/holdview/internal/modules/charts"
	chartshandlers "github.com/mgalanis/holdview/internal/modules/charts/handlers"
	"github.com/mgalanis/holdview/internal/modules/holdings"
	"github.com/mgalanis/holdview/pkg/embedded"
)

// Config holds server configuration.
type Config struct {
	Log             zerolog.Logger
	Config          *config.Config
	Port            int
	DevMode         bool
	Store           *holdings.TableStore
	Loader          *datasource.Loader
	AnalyzerService *analyzer.Service
	ChartsService   *charts.Service
}

// Server represents the HTTP server.
type Server struct {
	router         *chi.Mux
	server         *http.Server
	log            zerolog.Logger
	cfg            *config.Config
	store          *holdings.TableStore
	loader         *datasource.Loader
	analyzerSvc    *analyzer.Service
	chartsSvc      *charts.Service
	systemHandlers *SystemHandlers
}

// New creates a configured server with all routes registered.
func New(cfg Config) *Server {
	// Register common MIME types to ensure correct Content-Type headers
	_ = mime.AddExtensionType(".js", "application/javascript")
	_ = mime.AddExtensionType(".css", "text/css")

	s := &Server{
		router:      chi.NewRouter(),
		log:         cfg.Log.With().Str("component", "server").Logger(),
		cfg:         cfg.Config,
		store:       cfg.Store,
		loader:      cfg.Loader,
		analyzerSvc: cfg.AnalyzerService,
		chartsSvc:   cfg.ChartsService,
	}

	s.systemHandlers = NewSystemHandlers(cfg.Log, cfg.Config.DataDir, cfg.Store)

	s.setupMiddleware(cfg.DevMode)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s
}

// setupMiddleware configures middleware.
func (s *Server) setupMiddleware(devMode bool) {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(60 * time.Second))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

// setupRoutes configures all routes.
func (s *Server) setupRoutes() {
	// Health check (before SPA routing)
	s.router.Get("/health", s.handleHealth)

	// API routes
	s.router.Route("/api", func(r chi.Router) {
		analyzerHandler := analyzerhandlers.NewHandler(s.analyzerSvc, s.log)
		analyzerHandler.RegisterRoutes(r)

		chartsHandler := chartshandlers.NewHandler(s.chartsSvc, s.log)
		chartsHandler.RegisterRoutes(r)

		r.Post("/source/refresh", s.handleSourceRefresh)

		r.Route("/system", func(r chi.Router) {
			r.Get("/status", s.systemHandlers.HandleGetStatus)
		})
	})

	s.setupFrontend()
}

// setupFrontend serves the embedded dashboard frontend.
func (s *Server) setupFrontend() {
	frontendFS, err := fs.Sub(embedded.Files, "frontend")
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to create frontend filesystem from embedded files")
		return
	}

	fileServer := http.FileServer(http.FS(frontendFS))
	s.router.Get("/", s.serveIndex(frontendFS))
	s.router.Handle("/assets/*", fileServer)

	// Serve index.html for non-API routes (SPA routing)
	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api") || strings.HasPrefix(r.URL.Path, "/health") {
			http.NotFound(w, r)
			return
		}
		s.serveIndex(frontendFS)(w, r)
	})
}

// serveIndex returns a handler serving the embedded index.html.
func (s *Server) serveIndex(frontendFS fs.FS) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		indexFile, err := frontendFS.Open("index.html")
		if err != nil {
			s.log.Error().Err(err).Msg("Failed to open embedded index.html")
			http.NotFound(w, r)
			return
		}
		defer indexFile.Close()

		data, err := io.ReadAll(indexFile)
		if err != nil {
			s.log.Error().Err(err).Msg("Failed to read embedded index.html")
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if _, err := w.Write(data); err != nil {
			s.log.Error().Err(err).Msg("Failed to write index.html response")
		}
	}
}

// loggingMiddleware logs each HTTP request with timing and status.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}

// Router exposes the mux for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start begins listening for HTTP requests. Blocks until shutdown.
func (s *Server) Start() error {
	s.log.Info().Int("port", s.cfg.Port).Msg("Starting HTTP server")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}
