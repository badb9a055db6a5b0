// Package binder provides type-safe HTTP request data binding.
//
// Every binder has the same signature, func(r *http.Request, v any) error, and
// populates the struct fields tagged for its source:
//
//   - Path(extractor): `path:"name"` (always required), `path:"*"` for the catch-all segment
//   - Query():         `query:"name"`
//   - Header():        `header:"Name"` (canonicalized)
//   - Cookie():        `cookie:"name"`
//   - Form():          `form:"name"` and `file:"name"`
//   - JSON():          `body:"name"` body parameters, or a plain json-tagged struct
//
// The tag name is the external name, so aliasing is just a different tag value:
//
//	type ReadItemRequest struct {
//		ItemID int     `path:"item_id"`
//		Q      *string `query:"item-query"`
//		Short  bool    `query:"short" default:"false"`
//	}
//
// # Optional and required values
//
// Pointer fields are nil when the value is absent. A `default:"..."` tag supplies the
// raw value used when nothing was sent. The `,required` option turns absence into a
// validation error.
//
// # Enums
//
// Any field type implementing encoding.TextUnmarshaler is decoded through UnmarshalText,
// which is the place to reject values outside a fixed set.
//
// # Error Handling
//
// Per-field problems (missing, wrong type, unknown enum member) are collected and
// returned together as validator.ValidationErrors with keys like "query.item-query" or
// "body.item.price". Request-level problems are returned as wrapped sentinels:
//
//   - ErrUnsupportedMediaType: content type doesn't match expected type
//   - ErrFailedToParseJSON: malformed JSON body
//   - ErrFailedToParseForm: malformed form data
//   - ErrMissingContentType: body sent without Content-Type
//   - ErrRequestTooLarge: body exceeds the size limit
//   - ErrBinderNotApplicable: binder skipped for this request (body binders on GET)
package binder
