package main

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/apitour/handler"
	"github.com/dmitrymomot/apitour/modules/tour"
	"github.com/dmitrymomot/apitour/pkg/clientip"
	"github.com/dmitrymomot/apitour/pkg/file"
	"github.com/dmitrymomot/apitour/pkg/httpserver"
	"github.com/dmitrymomot/apitour/pkg/logger"
	"github.com/dmitrymomot/apitour/pkg/metrics"
	"github.com/dmitrymomot/apitour/pkg/redis"
	"github.com/dmitrymomot/apitour/pkg/requestid"
	"github.com/dmitrymomot/apitour/svc/catalog"
	"github.com/dmitrymomot/apitour/svc/user"
)

type app struct {
	log       *slog.Logger
	ipHeaders []string
	catalog   catalog.Store
	users     *user.Service
	uploads   file.Storage
	checks    map[string]httpserver.Check
	metrics   *metrics.Manager

	// staticDir is served under staticPrefix for local uploads.
	staticDir    string
	staticPrefix string

	closers []func() error
}

type pinger interface {
	Ping(ctx context.Context) error
}

// newApp builds the backends selected by cfg.
func newApp(ctx context.Context, cfg appConfig, log *slog.Logger) (*app, error) {
	a := &app{log: log, ipHeaders: cfg.ClientIPHeaders, checks: map[string]httpserver.Check{}}

	hasher, err := user.NewHasher(cfg.PasswordHasher, cfg.BcryptCost)
	if err != nil {
		return nil, err
	}
	a.users = user.NewService(hasher, log)

	items, err := cfg.seedItems()
	if err != nil {
		return nil, err
	}

	switch cfg.CatalogBackend {
	case catalogRedis:
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client.Close)
		a.checks["redis"] = redis.Healthcheck(client)

		store := catalog.NewRedis(client, cfg.CatalogRedisPrefix)
		if err := store.Seed(ctx, items); err != nil {
			a.close()
			return nil, err
		}
		a.catalog = store
	default:
		a.catalog = catalog.NewMemory(items)
	}

	switch cfg.UploadStorage {
	case uploadsLocal:
		storage, err := file.NewLocalStorage(cfg.UploadDir, cfg.UploadBaseURL)
		if err != nil {
			a.close()
			return nil, err
		}
		a.uploads = storage
		if strings.HasPrefix(cfg.UploadBaseURL, "/") {
			a.staticDir, a.staticPrefix = cfg.UploadDir, strings.TrimSuffix(cfg.UploadBaseURL, "/")
		}
	case uploadsS3:
		storage, err := file.NewS3Storage(ctx, cfg.S3)
		if err != nil {
			a.close()
			return nil, err
		}
		a.uploads = storage
	}
	if p, ok := a.uploads.(pinger); ok {
		a.checks["uploads"] = p.Ping
	}

	if cfg.MetricsEnabled {
		a.metrics = metrics.NewManager(metrics.WithRuntimeCollectors())
	}

	log.InfoContext(ctx, "backends ready",
		logger.Component("app"),
		slog.String("catalog", cfg.CatalogBackend),
		slog.String("uploads", cfg.UploadStorage),
		slog.Bool("metrics", cfg.MetricsEnabled),
	)
	return a, nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.Error("close backend", logger.Error(err))
		}
	}
	a.closers = nil
}

// router assembles the HTTP surface.
func (a *app) router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(clientip.Middleware(a.ipHeaders...))
	r.Use(middleware.Recoverer)
	r.Use(logger.Middleware(a.log))
	if a.metrics != nil {
		r.Use(a.metrics.Middleware)
		r.Method(http.MethodGet, "/metrics", a.metrics.Handler())
	}

	r.Get("/healthz", httpserver.HealthCheckHandler(a.log, a.checks))

	if a.staticDir != "" {
		r.Handle(a.staticPrefix+"/*", http.StripPrefix(a.staticPrefix, http.FileServer(http.Dir(a.staticDir))))
	}

	errorHandler := handler.NewErrorHandler(a.log)
	r.NotFound(handler.Wrap(func(handler.Context, struct{}) handler.Response {
		return handler.JSONError(handler.ErrNotFound)
	}, handler.WithErrorHandler[handler.Context, struct{}](errorHandler)))
	r.MethodNotAllowed(handler.Wrap(func(handler.Context, struct{}) handler.Response {
		return handler.JSONError(handler.ErrMethodNotAllowed)
	}, handler.WithErrorHandler[handler.Context, struct{}](errorHandler)))

	r.Mount("/", tour.New(tour.Options{
		Catalog:      a.catalog,
		Users:        a.users,
		Uploads:      a.uploads,
		ErrorHandler: errorHandler,
		Logger:       a.log,
	}).Handle())

	return r
}
