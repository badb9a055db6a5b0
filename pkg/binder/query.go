package binder

import "net/http"

// Query creates a query parameter binder.
//
// The tag name is the external parameter name, so a field can be read under an alias:
//
//	type ReadItemRequest struct {
//		ItemID int     `path:"item_id"`
//		Q      *string `query:"item-query"`           // ?item-query=foo
//		Skip   int     `query:"skip" default:"0"`     // default when absent
//		Limit  int     `query:"limit,required"`       // missing -> validation error
//		Tags   []string `query:"tag"`                 // ?tag=a&tag=b or ?tag=a,b
//	}
//
// Supported types: string, ints, uints, floats, bool, encoding.TextUnmarshaler,
// slices of those, and pointers for optional values.
func Query() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		query := r.URL.Query()
		return bindValues(v, "query", func(name string) ([]string, bool) {
			values, ok := query[name]
			return values, ok
		}, false)
	}
}
