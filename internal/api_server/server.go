package apiserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/gof-esteira/oficios-api/internal/auth"
	"github.com/gof-esteira/oficios-api/internal/classifier"
	"github.com/gof-esteira/oficios-api/internal/config"
	"github.com/gof-esteira/oficios-api/internal/events"
	handlers "github.com/gof-esteira/oficios-api/internal/handlers/v1"
	"github.com/gof-esteira/oficios-api/internal/mail"
	"github.com/gof-esteira/oficios-api/internal/service"
	"github.com/gof-esteira/oficios-api/internal/store"
	"github.com/gof-esteira/oficios-api/pkg/metrics"
	"github.com/gof-esteira/oficios-api/pkg/middleware"
	"go.uber.org/zap"
)

const (
	gracefulShutdownTimeout = 5 * time.Second
)

type Server struct {
	cfg      *config.Config
	store    store.Store
	listener net.Listener
	producer *events.EventProducer
}

// New returns a new instance of the oficios console server.
func New(
	cfg *config.Config,
	store store.Store,
	listener net.Listener,
	producer *events.EventProducer,
) *Server {
	return &Server{
		cfg:      cfg,
		store:    store,
		listener: listener,
		producer: producer,
	}
}

const statusMetricsInterval = 30 * time.Second

// refreshStatusMetrics keeps the per-status document gauge in sync with the
// store until the context is cancelled.
func refreshStatusMetrics(ctx context.Context, documents *service.DocumentService) {
	ticker := time.NewTicker(statusMetricsInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := documents.RefreshStatusMetrics(ctx); err != nil {
				zap.S().Named("api_server").Warnw("failed to refresh document status metrics", "error", err)
			}
		}
	}
}

func (s *Server) Run(ctx context.Context) error {
	zap.S().Named("api_server").Info("Initializing API server")

	tokenTTL, err := time.ParseDuration(s.cfg.Service.Auth.TokenTTL)
	if err != nil {
		return fmt.Errorf("failed to parse token ttl: %w", err)
	}
	tokens := auth.NewTokenManager(s.cfg.Service.Auth.TokenSigningKey, tokenTTL)

	authenticator, err := auth.NewAuthenticator(s.cfg.Service.Auth, tokens)
	if err != nil {
		return fmt.Errorf("failed to create authenticator: %w", err)
	}

	gateService := service.NewGateService(s.store, s.producer)
	documentService := service.NewDocumentService(s.store, s.producer)
	captureService := service.NewCaptureService(s.store, mail.NewRelayClient(s.cfg.Service.MailRelayUrl, s.cfg.Service.MailRelaySender))
	validationService := service.NewValidationService(
		s.store,
		classifier.NewHTTPClient(s.cfg.Service.ClassifierUrl, s.cfg.Service.ClassifierModel),
		gateService,
	)
	authService := service.NewAuthService(s.store, tokens)

	if s.cfg.Service.ValidationSweepInterval != "" {
		interval, err := time.ParseDuration(s.cfg.Service.ValidationSweepInterval)
		if err != nil {
			return fmt.Errorf("failed to parse validation sweep interval: %w", err)
		}
		go validationService.StartSweeper(ctx, interval, s.cfg.Service.ValidationSweepLimit)
	}

	go refreshStatusMetrics(ctx, documentService)

	h := handlers.NewServiceHandler(authService, captureService, validationService, gateService, documentService)

	router := chi.NewRouter()

	metricMiddleware := metrics.NewMiddleware("api_server")
	metricMiddleware.MustRegisterDefault()

	router.Use(
		metricMiddleware.Handler,
		cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "PUT", "POST", "DELETE", "HEAD", "OPTIONS"},
			AllowedHeaders:   []string{"*"},
			AllowCredentials: false,
			MaxAge:           300,
		}),
		middleware.RequestID,
		middleware.Logger(),
		chiMiddleware.Recoverer,
	)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Post("/api/v1/auth/login", h.Login)

	router.Group(func(r chi.Router) {
		r.Use(authenticator.Authenticator)

		r.Get("/api/v1/auth/me", h.WhoAmI)

		r.Post("/api/v1/capture/start", h.StartCapture)
		r.Post("/api/v1/capture/stop", h.StopCapture)
		r.Get("/api/v1/capture/progress", h.CaptureProgress)

		r.Post("/api/v1/validation/run", h.RunValidation)
		r.Post("/api/v1/pipeline/pause", h.PausePipeline)
		r.Post("/api/v1/pipeline/resume", h.ResumePipeline)
		r.Get("/api/v1/pipeline/status", h.PipelineStatus)

		r.Get("/api/v1/documents", h.ListDocuments)
		r.Get("/api/v1/documents/pending-count", h.PendingCount)
		r.Get("/api/v1/documents/{id}", h.GetDocument)
		r.Post("/api/v1/documents/{id}/file", h.FileDocument)
		r.Post("/api/v1/documents/{id}/report", h.ReportDocument)
		r.Post("/api/v1/documents/{id}/resolve", h.ResolveDocument)

		r.Get("/api/v1/attachments/{id}", h.DownloadAttachment)
		r.Get("/api/v1/reports/documents.xlsx", h.ExportReport)
	})

	srv := http.Server{Addr: s.cfg.Service.Address, Handler: router}

	go func() {
		<-ctx.Done()
		zap.S().Named("api_server").Infof("Shutdown signal received: %s", ctx.Err())
		ctxTimeout, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
		defer cancel()

		srv.SetKeepAlivesEnabled(false)
		_ = srv.Shutdown(ctxTimeout)
		zap.S().Named("api_server").Info("api server terminated")
	}()

	zap.S().Named("api_server").Infof("Listening on %s...", s.listener.Addr().String())
	if err := srv.Serve(s.listener); err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}

	return nil
}
