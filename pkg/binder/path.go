package binder

import (
	"fmt"
	"net/http"
)

// Path creates a path parameter binder using the router's extractor.
// Path parameters are always required: an empty segment is reported as missing.
// The catch-all "*" may be empty.
//
// Struct tags:
//   - `path:"name"` - binds to path parameter "name"
//   - `path:"*"`    - binds the catch-all segment, slashes included (chi wildcard)
//   - `path:"-"`    - skips the field
//
// Example with chi router:
//
//	type ReadFileRequest struct {
//		FilePath string `path:"*"`
//	}
//
//	r.Get("/files/*", handler.Wrap(readFile,
//		handler.WithBinders[handler.Context, ReadFileRequest](binder.Path(chi.URLParam)),
//	))
func Path(extractor func(r *http.Request, name string) string) func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		if extractor == nil {
			return fmt.Errorf("%w: extractor function is nil", ErrInvalidTarget)
		}

		return bindValues(v, "path", func(name string) ([]string, bool) {
			value := extractor(r, name)
			if name == "*" {
				return []string{value}, true
			}
			if value == "" {
				return nil, false
			}
			return []string{value}, true
		}, true)
	}
}
