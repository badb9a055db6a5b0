package httpserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"maps"
	"net/http"
	"slices"

	"github.com/dmitrymomot/apitour/pkg/logger"
)

// Check is a named readiness probe.
type Check func(ctx context.Context) error

// HealthCheckHandler serves liveness and readiness.
//
//   - With no checks it reports {"status":"alive"}.
//   - Otherwise every check runs with the request context; all passing gives 200
//     {"status":"ready","checks":{"redis":"ok"}}, any failure gives 503 with
//     "not_ready" and "fail" for the failing checks.
func HealthCheckHandler(log *slog.Logger, checks map[string]Check) http.HandlerFunc {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	names := slices.Sorted(maps.Keys(checks))

	return func(w http.ResponseWriter, r *http.Request) {
		body := struct {
			Status string            `json:"status"`
			Checks map[string]string `json:"checks,omitempty"`
		}{Status: "alive"}
		status := http.StatusOK

		if len(names) > 0 {
			body.Status = "ready"
			body.Checks = make(map[string]string, len(names))
			for _, name := range names {
				if err := checks[name](r.Context()); err != nil {
					log.ErrorContext(r.Context(), "readiness check failed",
						slog.String("check", name),
						logger.Error(err),
						logger.Component("healthcheck"),
					)
					body.Checks[name] = "fail"
					body.Status = "not_ready"
					status = http.StatusServiceUnavailable
					continue
				}
				body.Checks[name] = "ok"
			}
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}
}
