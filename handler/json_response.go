package handler

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Error *ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Details map[string][]string `json:"details,omitempty"`
}

// jsonResponse renders data as a bare JSON document.
type jsonResponse struct {
	status int
	data   any
}

func (j *jsonResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return writeJSON(w, j.status, j.data)
}

// jsonErrorResponse renders the error envelope.
type jsonErrorResponse struct {
	status int
	body   ErrorResponse
}

func (j *jsonErrorResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return writeJSON(w, j.status, j.body)
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	// Encode first so a marshal failure can still become a proper error response.
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, err = w.Write(append(data, '\n'))
	return err
}

// JSONOption configures JSON response
type JSONOption func(*int)

// WithJSONStatus sets custom HTTP status code
func WithJSONStatus(status int) JSONOption {
	return func(s *int) {
		*s = status
	}
}

// JSON creates a JSON response rendering v as the whole body.
// When the wrapped handler declares a response model, v is projected through it first.
func JSON(v any, opts ...JSONOption) Response {
	r := &jsonResponse{status: http.StatusOK, data: v}
	for _, opt := range opts {
		opt(&r.status)
	}
	return r
}

// JSONError creates a JSON error response from an error.
// Status and body follow the same classification as the error handler.
func JSONError(err error, opts ...JSONOption) Response {
	info := classifyError(err)
	r := &jsonErrorResponse{
		status: info.StatusCode,
		body:   ErrorResponse{Error: info.detail()},
	}
	for _, opt := range opts {
		opt(&r.status)
	}
	return r
}

// errorResponse defers to the configured error handler.
type errorResponse struct {
	err error
}

func (e errorResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return e.err
}

// Error returns a response that routes err through the wrapped handler's error handler,
// so it is classified, logged and rendered in one place.
func Error(err error) Response {
	if err == nil {
		err = ErrInternalServerError
	}
	return errorResponse{err: err}
}
