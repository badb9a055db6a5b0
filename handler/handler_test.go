package handler_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/apitour/handler"
	"github.com/dmitrymomot/apitour/pkg/binder"
	"github.com/dmitrymomot/apitour/pkg/projection"
	"github.com/dmitrymomot/apitour/pkg/validator"
)

type itemRequest struct {
	ItemID int     `path:"item_id"`
	Q      *string `query:"q"`
	Limit  int     `query:"limit" default:"10"`
}

func (r itemRequest) Validate() error {
	rules := []validator.Rule{validator.Min("query.limit", r.Limit, 1)}
	if r.Q != nil {
		rules = append(rules, validator.MinLen("query.q", *r.Q, 3))
	}
	return validator.Apply(rules...)
}

func itemPath(r *http.Request, name string) string {
	if name == "item_id" {
		return strings.TrimPrefix(r.URL.Path, "/items/")
	}
	return ""
}

func decodeError(t *testing.T, body []byte) handler.ErrorDetail {
	t.Helper()
	var resp handler.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	require.NotNil(t, resp.Error)
	return *resp.Error
}

func TestWrap(t *testing.T) {
	t.Parallel()

	called := func(ctx handler.Context, req itemRequest) handler.Response {
		return handler.JSON(map[string]any{"item_id": req.ItemID, "limit": req.Limit})
	}
	wrap := func(fn handler.HandlerFunc[handler.Context, itemRequest], opts ...handler.WrapOption[handler.Context, itemRequest]) http.HandlerFunc {
		opts = append([]handler.WrapOption[handler.Context, itemRequest]{
			handler.WithBinders[handler.Context, itemRequest](binder.Path(itemPath), binder.Query(), binder.Form()),
		}, opts...)
		return handler.Wrap(fn, opts...)
	}

	t.Run("binds and invokes", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		wrap(called)(rec, httptest.NewRequest(http.MethodGet, "/items/42?limit=5", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"item_id":42,"limit":5}`, rec.Body.String())
	})

	t.Run("merges binder and Validate errors", func(t *testing.T) {
		t.Parallel()
		invoked := false
		fn := func(ctx handler.Context, req itemRequest) handler.Response {
			invoked = true
			return handler.JSON(nil)
		}

		rec := httptest.NewRecorder()
		wrap(fn)(rec, httptest.NewRequest(http.MethodGet, "/items/abc?q=ab&limit=0", nil))

		assert.False(t, invoked)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		detail := decodeError(t, rec.Body.Bytes())
		assert.Equal(t, "validation_error", detail.Code)
		assert.Contains(t, detail.Details, "path.item_id")
		assert.Equal(t, []string{"must be at least 3 characters long"}, detail.Details["query.q"])
		assert.Contains(t, detail.Details, "query.limit")
	})

	t.Run("Validate skips fields that failed to bind", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		wrap(called)(rec, httptest.NewRequest(http.MethodGet, "/items/1?limit=zero", nil))

		detail := decodeError(t, rec.Body.Bytes())
		assert.Equal(t, []string{`invalid int value "zero"`}, detail.Details["query.limit"])
	})

	t.Run("request level binder error aborts", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodPost, "/items/1", strings.NewReader("{}"))
		req.Header.Set("Content-Type", "text/plain")
		rec := httptest.NewRecorder()
		wrap(called)(rec, req)

		assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
		assert.Equal(t, "unsupported_media_type", decodeError(t, rec.Body.Bytes()).Code)
	})

	t.Run("nil response", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		wrap(func(handler.Context, itemRequest) handler.Response { return nil })(rec, httptest.NewRequest(http.MethodGet, "/items/1", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "internal_server_error", decodeError(t, rec.Body.Bytes()).Code)
	})

	t.Run("Error routes through error handler", func(t *testing.T) {
		t.Parallel()
		var got error
		eh := func(ctx handler.Context, err error) {
			got = err
			ctx.ResponseWriter().WriteHeader(http.StatusTeapot)
		}
		fn := func(handler.Context, itemRequest) handler.Response {
			return handler.Error(handler.ErrNotFound)
		}

		rec := httptest.NewRecorder()
		wrap(fn, handler.WithErrorHandler[handler.Context, itemRequest](eh))(rec, httptest.NewRequest(http.MethodGet, "/items/1", nil))

		assert.Equal(t, http.StatusTeapot, rec.Code)
		assert.True(t, errors.Is(got, handler.ErrNotFound))
	})

	t.Run("decorators run outermost first", func(t *testing.T) {
		t.Parallel()
		var order []string
		deco := func(name string) handler.Decorator[handler.Context, itemRequest] {
			return func(next handler.HandlerFunc[handler.Context, itemRequest]) handler.HandlerFunc[handler.Context, itemRequest] {
				return func(ctx handler.Context, req itemRequest) handler.Response {
					order = append(order, name)
					return next(ctx, req)
				}
			}
		}

		rec := httptest.NewRecorder()
		wrap(called, handler.WithDecorators(deco("outer"), deco("inner")))(rec, httptest.NewRequest(http.MethodGet, "/items/1", nil))
		assert.Equal(t, []string{"outer", "inner"}, order)
	})
}

func TestWrapResponseModel(t *testing.T) {
	t.Parallel()

	type userOut struct {
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	type request struct{}

	t.Run("projects data", func(t *testing.T) {
		t.Parallel()
		fn := func(handler.Context, request) handler.Response {
			return handler.JSON(map[string]any{"username": "john", "email": "j@x.io", "hashed_password": "secret"})
		}

		rec := httptest.NewRecorder()
		handler.Wrap(fn, handler.WithResponseModel[handler.Context, request](projection.Of[userOut]()))(rec, httptest.NewRequest(http.MethodPost, "/user/", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"username":"john","email":"j@x.io"}`, rec.Body.String())
	})

	t.Run("projection failure is opaque 500", func(t *testing.T) {
		t.Parallel()
		fn := func(handler.Context, request) handler.Response {
			return handler.JSON(map[string]any{"username": "john"})
		}

		rec := httptest.NewRecorder()
		handler.Wrap(fn, handler.WithResponseModel[handler.Context, request](projection.Of[userOut]()))(rec, httptest.NewRequest(http.MethodPost, "/user/", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		detail := decodeError(t, rec.Body.Bytes())
		assert.Equal(t, "Internal Server Error", detail.Message)
		assert.NotContains(t, rec.Body.String(), "email")
	})

	t.Run("error responses bypass the model", func(t *testing.T) {
		t.Parallel()
		fn := func(handler.Context, request) handler.Response {
			return handler.JSONError(handler.ErrNotFound.WithMessage("Item not found"))
		}

		rec := httptest.NewRecorder()
		handler.Wrap(fn, handler.WithResponseModel[handler.Context, request](projection.Of[userOut]()))(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Item not found", decodeError(t, rec.Body.Bytes()).Message)
	})
}
