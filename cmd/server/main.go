// Command server runs the apitour HTTP service.
//
// Configuration comes from the environment (and an optional .env file):
//
//	APP_ENV=production CATALOG_BACKEND=redis REDIS_URL=redis://localhost:6379/0 server
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/dmitrymomot/apitour/pkg/clientip"
	"github.com/dmitrymomot/apitour/pkg/config"
	"github.com/dmitrymomot/apitour/pkg/httpserver"
	"github.com/dmitrymomot/apitour/pkg/logger"
	"github.com/dmitrymomot/apitour/pkg/requestid"
)

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		return err
	}

	log := logger.New(
		logger.WithEnvironment(cfg.Env, cfg.Name),
		logger.WithContextExtractors(requestid.LoggerExtractor(), clientip.LoggerExtractor()),
	)
	logger.SetAsDefault(log)

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		log.ErrorContext(ctx, "failed to initialize", logger.Error(err))
		return err
	}
	defer a.close()

	log.InfoContext(ctx, "starting", slog.String("addr", cfg.HTTP.Addr))
	return httpserver.New(cfg.HTTP, a.router(), httpserver.WithLogger(log)).Run(ctx)
}
