package binder

import "errors"

// Common binding errors
var (
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrFailedToParseJSON    = errors.New("failed to parse JSON request body")
	ErrFailedToParseForm    = errors.New("failed to parse form data")
	ErrMissingContentType   = errors.New("missing content type")
	ErrInvalidTarget        = errors.New("invalid binding target")
	ErrRequestTooLarge      = errors.New("request body too large")

	// ErrBinderNotApplicable tells the handler to skip a binder for this request,
	// e.g. a body binder on a GET request.
	ErrBinderNotApplicable = errors.New("binder not applicable")
)
