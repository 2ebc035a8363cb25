package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	contractx "github.com/tanpawarit/Chative-Customer-Service/agent/contract"
)

// InquiryService is the orchestrator as seen by the HTTP layer.
type InquiryService interface {
	Process(ctx context.Context, inq contractx.Inquiry) (string, error)
	ProcessStream(ctx context.Context, inq contractx.Inquiry) (*schema.StreamReader[string], error)
}

type Config struct {
	Port            int           `envconfig:"PORT" default:"8080"`
	ServiceName     string        `envconfig:"SERVICE_NAME" split_words:"true" default:"CrossBorder ERP Customer Service"`
	RequestTimeout  time.Duration `envconfig:"REQUEST_TIMEOUT" split_words:"true" default:"5m"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" split_words:"true" default:"30s"`
}

type Server struct {
	service InquiryService
	cfg     Config
	logger  zerolog.Logger
	now     func() time.Time
}

func NewServer(svc InquiryService, cfg Config, logger zerolog.Logger) *Server {
	if cfg.ServiceName == "" {
		cfg.ServiceName = "CrossBorder ERP Customer Service"
	}
	return &Server{
		service: svc,
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))
	if s.cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(s.cfg.RequestTimeout))
	}

	r.Route("/api/customerservice", func(r chi.Router) {
		r.Post("/inquiry", s.handleInquiry)
		r.Post("/inquiry/stream", s.handleInquiryStream)
	})
	r.Get("/health", s.handleHealth)

	return r
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Int("port", s.cfg.Port).Str("service", s.cfg.ServiceName).Msg("starting API server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// loggingMiddleware logs one line per request and puts a request scoped
// logger on the context for downstream log.Ctx calls.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		logger := s.logger.With().Str("request_id", middleware.GetReqID(r.Context())).Logger()
		r = r.WithContext(logger.WithContext(r.Context()))

		defer func() {
			logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Msg("request")
		}()

		next.ServeHTTP(ww, r)
	})
}
