package catalog_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/apitour/svc/catalog"
)

func TestMemory(t *testing.T) {
	t.Parallel()

	t.Run("default items", func(t *testing.T) {
		t.Parallel()
		store := catalog.NewMemory(catalog.DefaultItems())

		item, err := store.Get(context.Background(), "item1")
		require.NoError(t, err)
		assert.Equal(t, "car", item["type"])
		assert.NotContains(t, item, "size")

		item, err = store.Get(context.Background(), "item2")
		require.NoError(t, err)
		assert.Equal(t, "plane", item["type"])
		assert.Equal(t, 5, item["size"])
	})

	t.Run("missing item", func(t *testing.T) {
		t.Parallel()
		store := catalog.NewMemory(catalog.DefaultItems())
		_, err := store.Get(context.Background(), "item3")
		assert.ErrorIs(t, err, catalog.ErrNotFound)
	})

	t.Run("returned items are copies", func(t *testing.T) {
		t.Parallel()
		store := catalog.NewMemory(catalog.DefaultItems())
		item, err := store.Get(context.Background(), "item1")
		require.NoError(t, err)
		item["type"] = "boat"

		again, err := store.Get(context.Background(), "item1")
		require.NoError(t, err)
		assert.Equal(t, "car", again["type"])
	})

	t.Run("seed replaces contents", func(t *testing.T) {
		t.Parallel()
		store := catalog.NewMemory(catalog.DefaultItems())
		require.NoError(t, store.Seed(context.Background(), map[string]catalog.Item{
			"x": {"type": "car", "description": "x"},
		}))
		assert.Equal(t, 1, store.Len())
		_, err := store.Get(context.Background(), "item1")
		assert.ErrorIs(t, err, catalog.ErrNotFound)
	})

	t.Run("canceled context", func(t *testing.T) {
		t.Parallel()
		store := catalog.NewMemory(catalog.DefaultItems())
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := store.Get(ctx, "item1")
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("concurrent reads", func(t *testing.T) {
		t.Parallel()
		store := catalog.NewMemory(catalog.DefaultItems())
		var wg sync.WaitGroup
		for range 50 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := store.Get(context.Background(), "item2")
				assert.NoError(t, err)
			}()
		}
		wg.Wait()
	})
}

func TestParseYAML(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()
		items, err := catalog.ParseYAML(strings.NewReader(`
item1:
  description: All my friends drive a low rider
  type: car
item2:
  description: Music is my aeroplane, it's my aeroplane
  type: plane
  size: 5
`))
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "plane", items["item2"]["type"])
		assert.Equal(t, 5, items["item2"]["size"])
	})

	t.Run("empty document", func(t *testing.T) {
		t.Parallel()
		items, err := catalog.ParseYAML(strings.NewReader(""))
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("missing type", func(t *testing.T) {
		t.Parallel()
		_, err := catalog.ParseYAML(strings.NewReader("item1:\n  description: x\n"))
		assert.ErrorIs(t, err, catalog.ErrInvalidSeed)
	})

	t.Run("malformed", func(t *testing.T) {
		t.Parallel()
		_, err := catalog.ParseYAML(strings.NewReader("- just\n- a list\n"))
		assert.ErrorIs(t, err, catalog.ErrInvalidSeed)
	})

	t.Run("from file", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "items.yaml")
		require.NoError(t, os.WriteFile(path, []byte("a:\n  type: car\n  description: d\n"), 0o600))

		items, err := catalog.LoadYAML(path)
		require.NoError(t, err)
		assert.Equal(t, "car", items["a"]["type"])

		_, err = catalog.LoadYAML(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.ErrorIs(t, err, catalog.ErrInvalidSeed)
	})
}

type fakeRedis struct {
	mu   sync.Mutex
	data map[string]string
	err  error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) MSet(_ context.Context, values ...any) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return redis.NewStatusResult("", f.err)
	}
	for i := 0; i+1 < len(values); i += 2 {
		f.data[values[i].(string)] = string(values[i+1].([]byte))
	}
	return redis.NewStatusResult("OK", nil)
}

func TestRedis(t *testing.T) {
	t.Parallel()

	t.Run("seed and get", func(t *testing.T) {
		t.Parallel()
		client := newFakeRedis()
		store := catalog.NewRedis(client, "")
		require.NoError(t, store.Seed(context.Background(), catalog.DefaultItems()))

		assert.Contains(t, client.data, catalog.DefaultRedisPrefix+"item1")

		item, err := store.Get(context.Background(), "item2")
		require.NoError(t, err)
		assert.Equal(t, "plane", item["type"])
		assert.InDelta(t, 5, item["size"], 0)
	})

	t.Run("custom prefix", func(t *testing.T) {
		t.Parallel()
		client := newFakeRedis()
		store := catalog.NewRedis(client, "tour:")
		require.NoError(t, store.Seed(context.Background(), catalog.DefaultItems()))
		assert.Contains(t, client.data, "tour:item1")
	})

	t.Run("missing key", func(t *testing.T) {
		t.Parallel()
		store := catalog.NewRedis(newFakeRedis(), "")
		_, err := store.Get(context.Background(), "item3")
		assert.ErrorIs(t, err, catalog.ErrNotFound)
	})

	t.Run("backend failure", func(t *testing.T) {
		t.Parallel()
		client := newFakeRedis()
		client.err = errors.New("connection refused")
		store := catalog.NewRedis(client, "")

		_, err := store.Get(context.Background(), "item1")
		require.Error(t, err)
		assert.NotErrorIs(t, err, catalog.ErrNotFound)
		assert.Error(t, store.Seed(context.Background(), catalog.DefaultItems()))
	})

	t.Run("corrupt document", func(t *testing.T) {
		t.Parallel()
		client := newFakeRedis()
		client.data[catalog.DefaultRedisPrefix+"bad"] = "{not json"
		_, err := catalog.NewRedis(client, "").Get(context.Background(), "bad")
		assert.Error(t, err)
	})
}
