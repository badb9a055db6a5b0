package binder_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/apitour/pkg/binder"
	"github.com/dmitrymomot/apitour/pkg/validator"
)

type color string

func (c *color) UnmarshalText(text []byte) error {
	allowed := []string{"red", "green", "blue"}
	if !slices.Contains(allowed, string(text)) {
		return fmt.Errorf("must be one of: %v", allowed)
	}
	*c = color(text)
	return nil
}

func pathParams(params map[string]string) func(r *http.Request, name string) string {
	return func(_ *http.Request, name string) string {
		return params[name]
	}
}

func TestQuery(t *testing.T) {
	t.Parallel()

	type request struct {
		Q     *string  `query:"item-query"`
		Skip  int      `query:"skip" default:"0"`
		Limit int      `query:"limit" default:"10"`
		Short bool     `query:"short" default:"false"`
		Tags  []string `query:"q" default:"foo,bar"`
		Color color    `query:"color"`
		Need  string   `query:"need,required"`
	}

	t.Run("aliased and typed values", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/?item-query=foo&skip=2&limit=5&short=yes&q=a&q=b&color=red&need=x", nil)

		var result request
		require.NoError(t, binder.Query()(req, &result))

		require.NotNil(t, result.Q)
		assert.Equal(t, "foo", *result.Q)
		assert.Equal(t, 2, result.Skip)
		assert.Equal(t, 5, result.Limit)
		assert.True(t, result.Short)
		assert.Equal(t, []string{"a", "b"}, result.Tags)
		assert.Equal(t, color("red"), result.Color)
	})

	t.Run("defaults applied when absent", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/?need=x", nil)

		var result request
		require.NoError(t, binder.Query()(req, &result))

		assert.Nil(t, result.Q)
		assert.Equal(t, 0, result.Skip)
		assert.Equal(t, 10, result.Limit)
		assert.False(t, result.Short)
		assert.Equal(t, []string{"foo", "bar"}, result.Tags)
	})

	t.Run("all failing fields reported", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/?skip=abc&color=purple", nil)

		var result request
		err := binder.Query()(req, &result)
		require.Error(t, err)

		verrs := validator.ExtractValidationErrors(err)
		require.NotNil(t, verrs)
		assert.Equal(t, []string{"query.skip", "query.color", "query.need"}, verrs.Fields())
		assert.Equal(t, []string{`invalid int value "abc"`}, verrs.Get("query.skip"))
		assert.Equal(t, []string{"must be one of: [red green blue]"}, verrs.Get("query.color"))
		assert.Equal(t, []string{"field is required"}, verrs.Get("query.need"))
	})

	t.Run("invalid target", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/", nil)

		var result request
		err := binder.Query()(req, result)
		require.Error(t, err)
		assert.True(t, errors.Is(err, binder.ErrInvalidTarget))
	})
}

func TestPath(t *testing.T) {
	t.Parallel()

	t.Run("typed values", func(t *testing.T) {
		t.Parallel()
		type request struct {
			UserID int    `path:"user_id"`
			ItemID string `path:"item_id"`
		}

		req := httptest.NewRequest(http.MethodGet, "/users/3/items/abc", nil)
		var result request
		err := binder.Path(pathParams(map[string]string{"user_id": "3", "item_id": "abc"}))(req, &result)

		require.NoError(t, err)
		assert.Equal(t, 3, result.UserID)
		assert.Equal(t, "abc", result.ItemID)
	})

	t.Run("catch-all keeps slashes", func(t *testing.T) {
		t.Parallel()
		type request struct {
			FilePath string `path:"*"`
		}

		req := httptest.NewRequest(http.MethodGet, "/files//etc/x", nil)
		var result request
		err := binder.Path(pathParams(map[string]string{"*": "/etc/x"}))(req, &result)

		require.NoError(t, err)
		assert.Equal(t, "/etc/x", result.FilePath)
	})

	t.Run("catch-all may be empty", func(t *testing.T) {
		t.Parallel()
		type request struct {
			FilePath string `path:"*"`
		}

		req := httptest.NewRequest(http.MethodGet, "/files/", nil)
		result := request{FilePath: "unset"}
		err := binder.Path(pathParams(map[string]string{}))(req, &result)

		require.NoError(t, err)
		assert.Empty(t, result.FilePath)
	})

	t.Run("missing and invalid values", func(t *testing.T) {
		t.Parallel()
		type request struct {
			ItemID int    `path:"item_id"`
			Name   string `path:"name"`
		}

		req := httptest.NewRequest(http.MethodGet, "/items/x", nil)
		var result request
		err := binder.Path(pathParams(map[string]string{"item_id": "x"}))(req, &result)

		verrs := validator.ExtractValidationErrors(err)
		require.NotNil(t, verrs)
		assert.True(t, verrs.Has("path.item_id"))
		assert.Equal(t, []string{"field is required"}, verrs.Get("path.name"))
	})

	t.Run("nil extractor", func(t *testing.T) {
		t.Parallel()
		var result struct{}
		err := binder.Path(nil)(httptest.NewRequest(http.MethodGet, "/", nil), &result)
		assert.ErrorIs(t, err, binder.ErrInvalidTarget)
	})
}

func TestHeader(t *testing.T) {
	t.Parallel()

	type request struct {
		UserAgent *string  `header:"user-agent"`
		Tokens    []string `header:"X-Token"`
		Retries   int      `header:"X-Retries,required"`
	}

	t.Run("canonical names", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("User-Agent", "curl/8.0")
		req.Header.Add("X-Token", "a")
		req.Header.Add("X-Token", "b")
		req.Header.Set("X-Retries", "3")

		var result request
		require.NoError(t, binder.Header()(req, &result))

		require.NotNil(t, result.UserAgent)
		assert.Equal(t, "curl/8.0", *result.UserAgent)
		assert.Equal(t, []string{"a", "b"}, result.Tokens)
		assert.Equal(t, 3, result.Retries)
	})

	t.Run("missing required header", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/", nil)

		var result request
		err := binder.Header()(req, &result)

		verrs := validator.ExtractValidationErrors(err)
		require.NotNil(t, verrs)
		assert.Equal(t, []string{"header.X-Retries"}, verrs.Fields())
		assert.Nil(t, result.UserAgent)
	})
}

func TestCookie(t *testing.T) {
	t.Parallel()

	type request struct {
		AdsID *string `cookie:"ads_id"`
	}

	t.Run("present", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/cookies/", nil)
		req.AddCookie(&http.Cookie{Name: "ads_id", Value: "abc123"})

		var result request
		require.NoError(t, binder.Cookie()(req, &result))
		require.NotNil(t, result.AdsID)
		assert.Equal(t, "abc123", *result.AdsID)
	})

	t.Run("absent", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/cookies/", nil)

		var result request
		require.NoError(t, binder.Cookie()(req, &result))
		assert.Nil(t, result.AdsID)
	})
}
