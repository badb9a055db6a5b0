package binder

import (
	"net/http"
	"net/textproto"
)

// Header creates a request header binder. Names are canonicalized,
// so `header:"user-agent"` and `header:"User-Agent"` are equivalent.
// Repeated headers bind to slice fields.
func Header() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		return bindValues(v, "header", func(name string) ([]string, bool) {
			values, ok := r.Header[textproto.CanonicalMIMEHeaderKey(name)]
			return values, ok
		}, false)
	}
}
