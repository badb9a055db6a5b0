package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/apitour/pkg/binder"
	"github.com/dmitrymomot/apitour/pkg/logger"
	"github.com/dmitrymomot/apitour/pkg/requestid"
	"github.com/dmitrymomot/apitour/pkg/validator"
)

// ErrorInfo contains classified error information
type ErrorInfo struct {
	StatusCode int
	Code       string
	Message    string
	Details    ValidationError
	LogLevel   slog.Level
}

func (i ErrorInfo) detail() *ErrorDetail {
	d := &ErrorDetail{Code: i.Code, Message: i.Message}
	if !i.Details.IsEmpty() {
		d.Details = i.Details
	}
	return d
}

// Helper functions for HTTP status code classification
func isClientError(statusCode int) bool {
	return statusCode >= http.StatusBadRequest && statusCode < http.StatusInternalServerError
}

// determineLogLevel maps HTTP status codes to appropriate log levels
func determineLogLevel(statusCode int) slog.Level {
	if isClientError(statusCode) {
		return slog.LevelWarn
	}
	return slog.LevelError
}

// binderErrors maps request-level binding failures to client errors.
var binderErrors = []struct {
	target error
	err    HTTPError
}{
	{binder.ErrUnsupportedMediaType, ErrUnsupportedMediaType},
	{binder.ErrMissingContentType, ErrUnsupportedMediaType},
	{binder.ErrRequestTooLarge, ErrRequestEntityTooLarge},
	{binder.ErrFailedToParseJSON, ErrBadRequest.WithMessage("Malformed JSON body")},
	{binder.ErrFailedToParseForm, ErrBadRequest.WithMessage("Malformed form data")},
}

// classifyError analyzes the error and returns structured error information.
// Unrecognized errors become an opaque 500.
func classifyError(err error) ErrorInfo {
	info := ErrorInfo{
		StatusCode: ErrInternalServerError.Code,
		Code:       ErrInternalServerError.Key,
		Message:    ErrInternalServerError.message(),
	}

	var (
		verrs   validator.ValidationErrors
		valErr  ValidationError
		httpErr HTTPError
	)
	switch {
	case errors.As(err, &verrs):
		info.StatusCode = ErrUnprocessableEntity.Code
		info.Code = ErrUnprocessableEntity.Key
		info.Message = "Request validation failed"
		info.Details = NewValidationError(verrs...)

	case errors.As(err, &valErr):
		info.StatusCode = ErrUnprocessableEntity.Code
		info.Code = ErrUnprocessableEntity.Key
		info.Message = "Request validation failed"
		info.Details = valErr

	case errors.As(err, &httpErr):
		info.StatusCode = httpErr.Code
		info.Code = httpErr.Key
		info.Message = httpErr.message()

	default:
		for _, be := range binderErrors {
			if errors.Is(err, be.target) {
				info.StatusCode = be.err.Code
				info.Code = be.err.Key
				info.Message = be.err.message()
				break
			}
		}
	}

	info.LogLevel = determineLogLevel(info.StatusCode)
	return info
}

// logError logs the error with request context
func logError(log *slog.Logger, ctx Context, err error, info ErrorInfo) {
	r := ctx.Request()
	log.LogAttrs(r.Context(), info.LogLevel, "request error",
		logger.RequestID(requestid.FromContext(r.Context())),
		logger.Error(err),
		logger.Status(info.StatusCode),
		logger.Method(r.Method),
		logger.Path(r.URL.Path),
		logger.Component("error_handler"),
	)
}

// renderError writes the JSON error envelope.
func renderError(ctx Context, info ErrorInfo) error {
	resp := &jsonErrorResponse{
		status: info.StatusCode,
		body:   ErrorResponse{Error: info.detail()},
	}
	return resp.Render(ctx.ResponseWriter(), ctx.Request())
}

// defaultErrorHandler renders the JSON error envelope without logging.
func defaultErrorHandler[C Context](ctx C, err error) {
	if renderErr := renderError(ctx, classifyError(err)); renderErr != nil {
		http.Error(ctx.ResponseWriter(), http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// NewErrorHandler creates the JSON error handler.
// Client errors are logged at warn level, server errors at error level.
// Configure this once in main.go and pass to all routes.
func NewErrorHandler(log *slog.Logger) ErrorHandler[Context] {
	if log == nil {
		log = slog.Default()
	}

	return func(ctx Context, err error) {
		info := classifyError(err)
		logError(log, ctx, err, info)

		if renderErr := renderError(ctx, info); renderErr != nil {
			log.ErrorContext(ctx, "failed to render error response",
				logger.Error(renderErr),
				logger.Event("render_error_response"),
			)
			http.Error(ctx.ResponseWriter(), http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	}
}
