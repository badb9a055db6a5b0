package handler_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/apitour/handler"
	"github.com/dmitrymomot/apitour/pkg/binder"
	"github.com/dmitrymomot/apitour/pkg/validator"
)

func TestJSON(t *testing.T) {
	t.Parallel()

	t.Run("bare data", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		require.NoError(t, handler.JSON(map[string]string{"message": "Hello World"}).Render(w, httptest.NewRequest(http.MethodGet, "/", nil)))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"message":"Hello World"}`, w.Body.String())
	})

	t.Run("custom status", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		require.NoError(t, handler.JSON(map[string]int{"id": 1}, handler.WithJSONStatus(http.StatusCreated)).Render(w, httptest.NewRequest(http.MethodPost, "/", nil)))
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("unencodable data leaves writer untouched", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		err := handler.JSON(map[string]any{"ch": make(chan int)}).Render(w, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Error(t, err)
		assert.Empty(t, w.Body.String())
	})
}

func TestJSONError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{"http error with message", handler.ErrNotFound.WithMessage("Item not found"), http.StatusNotFound, "not_found", "Item not found"},
		{"http error default message", handler.ErrConflict, http.StatusConflict, "conflict", "Conflict"},
		{"wrapped http error", fmt.Errorf("lookup: %w", handler.ErrForbidden), http.StatusForbidden, "forbidden", "Forbidden"},
		{"malformed json", fmt.Errorf("%w: unexpected EOF", binder.ErrFailedToParseJSON), http.StatusBadRequest, "bad_request", "Malformed JSON body"},
		{"media type", binder.ErrUnsupportedMediaType, http.StatusUnsupportedMediaType, "unsupported_media_type", "Unsupported Media Type"},
		{"too large", binder.ErrRequestTooLarge, http.StatusRequestEntityTooLarge, "request_entity_too_large", "Request Entity Too Large"},
		{"internal error hidden", errors.New("db password leaked"), http.StatusInternalServerError, "internal_server_error", "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w := httptest.NewRecorder()
			require.NoError(t, handler.JSONError(tt.err).Render(w, httptest.NewRequest(http.MethodGet, "/", nil)))

			assert.Equal(t, tt.status, w.Code)
			detail := decodeError(t, w.Body.Bytes())
			assert.Equal(t, tt.code, detail.Code)
			assert.Equal(t, tt.message, detail.Message)
			assert.Empty(t, detail.Details)
		})
	}

	t.Run("validation errors list every field", func(t *testing.T) {
		t.Parallel()
		var verrs validator.ValidationErrors
		verrs.AddField("body.price", "must be greater than 0", 0)
		verrs.AddField("body.name", "field is required", nil)

		w := httptest.NewRecorder()
		require.NoError(t, handler.JSONError(verrs).Render(w, httptest.NewRequest(http.MethodPost, "/", nil)))

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		detail := decodeError(t, w.Body.Bytes())
		assert.Equal(t, "validation_error", detail.Code)
		assert.Equal(t, map[string][]string{
			"body.price": {"must be greater than 0"},
			"body.name":  {"field is required"},
		}, detail.Details)
	})

	t.Run("handler validation error", func(t *testing.T) {
		t.Parallel()
		verr := handler.NewValidationError()
		verr.Add("form.username", "already taken")

		w := httptest.NewRecorder()
		require.NoError(t, handler.JSONError(verr).Render(w, httptest.NewRequest(http.MethodPost, "/", nil)))

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, []string{"already taken"}, decodeError(t, w.Body.Bytes()).Details["form.username"])
	})
}

func TestValidationError(t *testing.T) {
	t.Parallel()

	err := handler.NewValidationError()
	assert.Equal(t, "validation failed", err.Error())
	assert.True(t, err.IsEmpty())

	err.Add("email", "invalid format")
	err.Add("email", "already exists")
	assert.True(t, err.Has("email"))
	assert.False(t, err.Has("name"))
	assert.Equal(t, "invalid format", err.Get("email"))
	assert.Equal(t, "validation failed: email: invalid format", err.Error())
	assert.Len(t, err["email"], 2)
}
