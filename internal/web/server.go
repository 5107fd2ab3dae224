package web

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/elchristog/marketing-funnels-gestor/internal/analytics"
	"github.com/elchristog/marketing-funnels-gestor/internal/shared/middleware"
)

//go:embed static/*
var staticFiles embed.FS

// maxUploadSize bounds database uploads.
const maxUploadSize = 64 << 20

type Server struct {
	service         *analytics.Service
	router          *http.ServeMux
	port            int
	shutdownTimeout time.Duration
}

func NewServer(service *analytics.Service, port int, shutdownTimeout time.Duration) *Server {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 5 * time.Second
	}
	s := &Server{
		service:         service,
		router:          http.NewServeMux(),
		port:            port,
		shutdownTimeout: shutdownTimeout,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(fmt.Sprintf("failed to create static filesystem: %v", err))
	}
	s.router.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	s.router.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Pages
	s.router.HandleFunc("GET /{$}", s.handleDashboard)

	// Form posts
	s.router.HandleFunc("POST /steps", s.handleCreateStep)
	s.router.HandleFunc("POST /steps/{id}/delete", s.handleDeleteStep)
	s.router.HandleFunc("POST /registrations", s.handleCreateRegistration)
	s.router.HandleFunc("POST /hypotheses", s.handleCreateHypothesis)

	// API
	s.router.HandleFunc("GET /api/funnel", s.handleAPIFunnel)
	s.router.HandleFunc("GET /api/funnel/weekly", s.handleAPIFunnelWeekly)
	s.router.HandleFunc("GET /api/charts/conversion", s.handleAPIChartConversion)

	// Export / import
	s.router.HandleFunc("GET /api/export/report", s.handleAPIExportReport)
	s.router.HandleFunc("GET /api/export/database", s.handleAPIExportDatabase)
	s.router.HandleFunc("POST /api/import/database", s.handleAPIImportDatabase)
}

// Handler returns the router wrapped in the request middleware.
func (s *Server) Handler() http.Handler {
	return middleware.Chain(s.router, middleware.Recoverer, middleware.RequestLogger)
}

func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.WithField("addr", fmt.Sprintf("http://localhost:%d", s.port)).Info("starting server")

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("server shutdown error")
		}
	}()

	err := server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}
