// Package handler provides type-safe HTTP endpoint resolution.
//
// A handler is a plain function taking a typed request and returning a Response.
// Wrap turns it into an http.HandlerFunc that binds the request from its declared
// sources, validates it, invokes the handler, projects the result through an optional
// response model and renders it:
//
//	type ReadItemRequest struct {
//		ItemID int     `path:"item_id"`
//		Q      *string `query:"item-query"`
//	}
//
//	func readItem(ctx handler.Context, req ReadItemRequest) handler.Response {
//		return handler.JSON(map[string]any{"item_id": req.ItemID})
//	}
//
//	r.Get("/items/{item_id}", handler.Wrap(readItem,
//		handler.WithBinders[handler.Context, ReadItemRequest](binder.Path(chi.URLParam), binder.Query()),
//		handler.WithErrorHandler[handler.Context, ReadItemRequest](errorHandler),
//	))
//
// # Validation
//
// All binders run, and every per-field failure is collected. If the request type has a
// Validate() error method it runs afterwards and its validator.ValidationErrors are merged
// in. The handler runs only when nothing failed; otherwise the error handler receives the
// merged validator.ValidationErrors and responds with 422 listing every field.
//
// # Response models
//
//	handler.WithResponseModel[handler.Context, CreateUserRequest](projection.Of[UserOut]())
//
// The data of a JSON response is projected through the model before rendering, so
// fields the model does not declare never reach the client.
//
// # Errors
//
// Handlers return domain errors either as a rendered error response or through the
// configured error handler:
//
//	return handler.JSONError(handler.ErrNotFound.WithMessage("Item not found"))
//	return handler.Error(err)
//
// Error bodies have the shape {"error":{"code":"...","message":"...","details":{...}}}.
// Internal errors never leak their message to the client.
package handler
