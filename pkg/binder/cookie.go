package binder

import "net/http"

// Cookie creates a cookie binder.
//
//	type ReadCookiesRequest struct {
//		AdsID *string `cookie:"ads_id"`
//	}
func Cookie() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		return bindValues(v, "cookie", func(name string) ([]string, bool) {
			c, err := r.Cookie(name)
			if err != nil {
				return nil, false
			}
			return []string{c.Value}, true
		}, false)
	}
}
