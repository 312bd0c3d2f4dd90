package http

// this is entry point of the http request handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"

	"gitlab.com/jobprep-2025.net/internal/core/harness"
	"gitlab.com/jobprep-2025.net/internal/core/ports/primary"
	"gitlab.com/jobprep-2025.net/internal/core/services/grading"
	"gitlab.com/jobprep-2025.net/internal/core/services/templates"
	"gitlab.com/jobprep-2025.net/internal/handlers"
	"gitlab.com/jobprep-2025.net/internal/handlers/languages"
	"gitlab.com/jobprep-2025.net/internal/handlers/submissions"
)

type ServiceProvider struct {
	gradingService  grading.IGradingService
	templateService templates.ITemplateService
	registry        *harness.Registry
	middleware      *handlers.MiddlewareProvider
	metrics         http.Handler
}

// NewServiceProvider collects what the handlers need. metrics may be nil.
func NewServiceProvider(
	gradingService grading.IGradingService,
	templateService templates.ITemplateService,
	registry *harness.Registry,
	middleware *handlers.MiddlewareProvider,
	metrics http.Handler,
) *ServiceProvider {
	return &ServiceProvider{
		gradingService:  gradingService,
		templateService: templateService,
		registry:        registry,
		middleware:      middleware,
		metrics:         metrics,
	}
}

type Server struct {
	router          *mux.Router
	Port            int
	MetricsPort     int
	ServiceName     string
	ServiceProvider ServiceProvider
	logger          primary.Logger

	srv        *http.Server
	metricsSrv *http.Server
}

func NewServer(port, metricsPort int, serviceName string, serviceProvider ServiceProvider, logger primary.Logger) *Server {
	return &Server{
		Port:            port,
		MetricsPort:     metricsPort,
		ServiceName:     serviceName,
		ServiceProvider: serviceProvider,
		logger:          logger,
	}
}

func (s *Server) Init() error {
	sp := s.ServiceProvider
	if sp.gradingService == nil || sp.templateService == nil || sp.registry == nil || sp.middleware == nil {
		return errors.New("http server: grading service, template service, registry and middleware are required")
	}

	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		handlers.ResponseWithJson(w, http.StatusOK, map[string]string{"status": "ok", "service": s.ServiceName})
	}).Methods(http.MethodGet)

	submissions.
		NewSubmissionHandler(s.ServiceProvider.gradingService, s.logger).
		RegisterRoutes(r, s.ServiceProvider.middleware)
	languages.
		NewLanguageHandler(sp.registry, sp.templateService, s.logger).
		RegisterRoutes(r)

	s.router = r
	return nil
}

// Router exposes the configured routes; Init must have been called.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) Start(ctx context.Context) {
	// grading a submission can take several polling rounds per test case
	s.srv = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		s.logger.Info("Server listening", "addr", s.srv.Addr, "service", s.ServiceName)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	if s.ServiceProvider.metrics == nil {
		return
	}

	mr := http.NewServeMux()
	mr.Handle("/metrics", s.ServiceProvider.metrics)
	s.metricsSrv = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.MetricsPort),
		Handler:           mr,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		s.logger.Info("Metrics listening", "addr", s.metricsSrv.Addr)
		if err := s.metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Metrics server error", "error", err)
		}
	}()
}

func (s *Server) Stop(ctx context.Context) {
	s.logger.Info("Shutting down http server...")
	if s.srv != nil {
		if err := s.srv.Shutdown(ctx); err != nil {
			s.logger.Error("Server forced to shutdown", "error", err)
		}
	}
	if s.metricsSrv != nil {
		if err := s.metricsSrv.Shutdown(ctx); err != nil {
			s.logger.Error("Metrics server forced to shutdown", "error", err)
		}
	}
}
