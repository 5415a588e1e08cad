package http

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"

	"github.com/tuannm151/sweetshop/internal/config"
	"github.com/tuannm151/sweetshop/internal/http/metric"
	"github.com/tuannm151/sweetshop/internal/http/middleware"
	"github.com/tuannm151/sweetshop/internal/http/swagger"
	"github.com/tuannm151/sweetshop/internal/service"
	"github.com/tuannm151/sweetshop/internal/storage/db"
	"github.com/tuannm151/sweetshop/pkg/validator"
)

var tracer = otel.Tracer("internal/http")

// Service represents the HTTP service.
type Service struct {
	cfg     config.HTTP
	logger  *slog.Logger
	metrics *metric.Metrics

	authSvc  service.AuthService
	sweetSvc service.SweetService
	health   db.HealthChecker
}

type CleanupFunc func(ctx context.Context) error

func New(
	cfg config.HTTP,
	log *slog.Logger,
	authSvc service.AuthService,
	sweetSvc service.SweetService,
	health db.HealthChecker,
) *Service {
	return &Service{
		cfg:      cfg,
		logger:   log.With(slog.String("service", "http")),
		metrics:  metric.New(),
		authSvc:  authSvc,
		sweetSvc: sweetSvc,
		health:   health,
	}
}

func (s *Service) Run(ctx context.Context) (CleanupFunc, error) {
	r := chi.NewRouter()
	s.RegisterMiddlewares(r)

	if s.cfg.Swagger {
		swagger.Register(r)
	}

	s.RegisterHandlers(r)

	return s.RunWithServer(ctx, r)
}

func (s *Service) RunWithServer(ctx context.Context, handler http.Handler) (CleanupFunc, error) {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 16, // 64 KB
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			panic(err)
		}
	}()

	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}, nil
}

func (s *Service) RegisterMiddlewares(r chi.Router) {
	r.Use(
		middleware.Recoverer(s.logger),
		middleware.Trace(tracer),
		middleware.Metrics(s.metrics),
		middleware.CorrelationID(),
		middleware.Cors(),
		middleware.Logging(s.logger),
	)
}

func (s *Service) RegisterHandlers(r chi.Router) {
	rs := &responder{logger: s.logger}
	v := validator.NewDefaultValidator()

	authHandler := newAuthHandler(s.authSvc, v, rs)
	sweetHandler := newSweetHandler(s.sweetSvc, v, rs)
	healthHandler := newHealthHandler(s.health, rs)

	r.Get("/", healthHandler.root)
	r.Get("/api/health", healthHandler.check)

	r.Post("/api/auth/register", authHandler.register)
	r.Post("/api/auth/login", authHandler.login)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(s.authSvc))

		r.Get("/api/auth/me", authHandler.me)

		r.Get("/api/sweets", sweetHandler.list)
		r.Get("/api/sweets/search", sweetHandler.search)
		r.Get("/api/sweets/{id}", sweetHandler.get)
		r.Post("/api/sweets/{id}/purchase", sweetHandler.purchase)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin())

			r.Post("/api/sweets", sweetHandler.create)
			r.Put("/api/sweets/{id}", sweetHandler.update)
			r.Delete("/api/sweets/{id}", sweetHandler.delete)
			r.Post("/api/sweets/{id}/restock", sweetHandler.restock)
		})
	})

	r.Handle(middleware.MetricsPath, promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{
		ErrorLog: log.Default(),
	}))
}
