package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrymomot/apitour/pkg/binder"
	"github.com/dmitrymomot/apitour/pkg/projection"
	"github.com/dmitrymomot/apitour/pkg/validator"
)

// HandlerFunc provides type-safe HTTP request handling with custom context support.
// C must implement the Context interface, R can be any request type.
//
// Example:
//
//	handler := handler.HandlerFunc[handler.Context, CreateUserRequest](
//		func(ctx handler.Context, req CreateUserRequest) handler.Response {
//			user, err := users.Save(ctx, req.User)
//			if err != nil {
//				return handler.Error(err)
//			}
//			return handler.JSON(user)
//		},
//	)
type HandlerFunc[C Context, R any] func(ctx C, req R) Response

// Response renders itself to an http.ResponseWriter.
// Implementations should set headers, status code, and write body.
type Response interface {
	Render(w http.ResponseWriter, r *http.Request) error
}

// Bind parses HTTP requests into typed values.
type Bind func(r *http.Request, v any) error

// ErrorHandler handles errors from binding, validation or rendering.
type ErrorHandler[C Context] func(ctx C, err error)

// Validatable is implemented by request types that check their own constraints.
// The returned error should be validator.ValidationErrors.
type Validatable interface {
	Validate() error
}

// Decorator wraps a HandlerFunc to add cross-cutting functionality.
// Decorators are applied in order, with the first decorator in the list
// being the outermost wrapper.
type Decorator[C Context, R any] func(HandlerFunc[C, R]) HandlerFunc[C, R]

// WrapOption configures the Wrap function.
type WrapOption[C Context, R any] func(*wrapConfig[C, R])

type wrapConfig[C Context, R any] struct {
	binders        []Bind
	errorHandler   ErrorHandler[C]
	contextFactory func(http.ResponseWriter, *http.Request) C
	decorators     []Decorator[C, R]
	model          projection.Model
}

// WithBinders sets request binders that will be applied in order.
// Each binder processes only its own struct tags.
//
// Example:
//
//	r.Put("/items/{item_id}", handler.Wrap(updateItem,
//		handler.WithBinders[handler.Context, UpdateItemRequest](
//			binder.Path(chi.URLParam), // path: tags
//			binder.JSON(),             // body: tags
//		),
//	))
func WithBinders[C Context, R any](binders ...Bind) WrapOption[C, R] {
	return func(c *wrapConfig[C, R]) {
		c.binders = append(c.binders, binders...)
	}
}

// WithErrorHandler sets a custom error handler.
func WithErrorHandler[C Context, R any](h ErrorHandler[C]) WrapOption[C, R] {
	return func(c *wrapConfig[C, R]) {
		if h != nil {
			c.errorHandler = h
		}
	}
}

// WithContextFactory sets a custom context factory.
func WithContextFactory[C Context, R any](f func(http.ResponseWriter, *http.Request) C) WrapOption[C, R] {
	return func(c *wrapConfig[C, R]) {
		if f != nil {
			c.contextFactory = f
		}
	}
}

// WithDecorators adds decorators to wrap the handler.
// Decorators are applied in order, with the first decorator being the outermost.
func WithDecorators[C Context, R any](decorators ...Decorator[C, R]) WrapOption[C, R] {
	return func(c *wrapConfig[C, R]) {
		c.decorators = append(c.decorators, decorators...)
	}
}

// WithResponseModel declares the response shape. JSON data returned by the handler
// is projected through m before rendering; a projection failure is a server error.
func WithResponseModel[C Context, R any](m projection.Model) WrapOption[C, R] {
	return func(c *wrapConfig[C, R]) {
		c.model = m
	}
}

// Wrap converts a typed HandlerFunc to http.HandlerFunc.
//
// Usage with custom context:
//
//	handler := handler.HandlerFunc[AppContext, CreateUserRequest](...)
//	r.Post("/users", handler.Wrap(handler,
//		handler.WithContextFactory(NewAppContext),
//	))
func Wrap[C Context, R any](h HandlerFunc[C, R], opts ...WrapOption[C, R]) http.HandlerFunc {
	cfg := &wrapConfig[C, R]{
		errorHandler: defaultErrorHandler[C],
		contextFactory: func(w http.ResponseWriter, r *http.Request) C {
			if c, ok := NewContext(w, r).(C); ok {
				return c
			}
			panic("cannot use default context factory with custom context type - provide WithContextFactory")
		},
	}

	for _, opt := range opts {
		opt(cfg)
	}

	// Apply decorators in reverse order so first decorator is outermost
	finalHandler := h
	for i := len(cfg.decorators) - 1; i >= 0; i-- {
		finalHandler = cfg.decorators[i](finalHandler)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := cfg.contextFactory(w, r)

		var req R
		if err := bindRequest(r, &req, cfg.binders); err != nil {
			cfg.errorHandler(ctx, err)
			return
		}

		response := finalHandler(ctx, req)
		if response == nil {
			cfg.errorHandler(ctx, ErrNilResponse)
			return
		}

		if er, ok := response.(errorResponse); ok {
			cfg.errorHandler(ctx, er.err)
			return
		}

		if jr, ok := response.(*jsonResponse); ok && cfg.model != nil {
			projected, err := cfg.model.Project(jr.data)
			if err != nil {
				cfg.errorHandler(ctx, fmt.Errorf("%w: %w", ErrResponseModel, err))
				return
			}
			jr.data = projected
		}

		if err := response.Render(w, r); err != nil {
			cfg.errorHandler(ctx, err)
		}
	}
}

// bindRequest runs every binder, then Validate, and merges field errors.
// A non-field error from a binder aborts immediately.
func bindRequest[R any](r *http.Request, req *R, binders []Bind) error {
	var fieldErrs validator.ValidationErrors

	for _, bind := range binders {
		err := bind(r, req)
		if err == nil || errors.Is(err, binder.ErrBinderNotApplicable) {
			continue
		}
		verrs := validator.ExtractValidationErrors(err)
		if verrs == nil {
			return err
		}
		fieldErrs = append(fieldErrs, verrs...)
	}

	if v, ok := any(req).(Validatable); ok {
		if err := v.Validate(); err != nil {
			verrs := validator.ExtractValidationErrors(err)
			if verrs == nil {
				return err
			}
			// Constraints on a field (or a parent of it) that already failed to bind add nothing.
			bound := fieldErrs
			for _, ve := range verrs {
				if !failedToBind(bound, ve.Field) {
					fieldErrs = append(fieldErrs, ve)
				}
			}
		}
	}

	return fieldErrs.OrNil()
}

func failedToBind(bound validator.ValidationErrors, field string) bool {
	for _, ve := range bound {
		if ve.Field == field || strings.HasPrefix(field, ve.Field+".") {
			return true
		}
	}
	return false
}
