// Package logger builds *slog.Logger instances with functional options, helper
// attribute constructors and transparent injection of request-scoped values.
//
// New picks a text or JSON slog.Handler, adds static attributes and wraps it in
// a handler that runs every registered ContextExtractor on each record, so a
// request id stored in the context shows up without passing it around:
//
//	log := logger.New(
//		logger.WithEnvironment(cfg.AppEnv, cfg.AppName),
//		logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	log.InfoContext(r.Context(), "user saved", logger.Component("user"))
//
// Development uses text output at debug level; production and staging use JSON at
// info level. Middleware logs one line per HTTP request.
package logger
