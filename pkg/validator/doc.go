// Package validator provides composable, type-safe validation rules for
// request parameters and body fields.
//
// A Rule couples a boolean Check with translation-friendly error metadata.
// Rules are evaluated with Apply, which aggregates every failure into a
// ValidationErrors slice that satisfies the error interface, so all failing
// fields are reported at once rather than only the first one.
//
// # Usage
//
//	err := validator.Apply(
//	    validator.Required("body.name", req.Name),
//	    validator.GreaterThan("body.price", req.Price, 0),
//	    validator.MaxLen("body.description", desc, 300),
//	)
//	if verrs := validator.ExtractValidationErrors(err); verrs != nil {
//	    for _, field := range verrs.Fields() {
//	        // ...
//	    }
//	}
//
// Field names are free-form strings. Request binders in this module use
// "<source>.<name>" paths such as "query.item-query" or "body.item.price";
// Path builds them.
//
// Errors produced by different stages (coercion in binders, constraint rules
// in Validate methods) can be combined with Merge.
package validator
