package cache

import (
	"os"
	"testing"
	"time"

	"github.com/charmbracelet/genprobe/internal/proto"
	"github.com/stretchr/testify/require"
)

func TestCache(t *testing.T) {
	t.Run("read non-existent", func(t *testing.T) {
		cache, err := New[string](t.TempDir(), ModelsCache)
		require.NoError(t, err)
		_, err = cache.Get("super-fake")
		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("write", func(t *testing.T) {
		cache, err := New[[]string](t.TempDir(), ModelsCache)
		require.NoError(t, err)
		require.NoError(t, cache.Set("fake", []string{"a", "b"}))

		result, err := cache.Get("fake")
		require.NoError(t, err)
		require.Equal(t, []string{"a", "b"}, result)
	})

	t.Run("delete", func(t *testing.T) {
		cache, err := New[string](t.TempDir(), ModelsCache)
		require.NoError(t, err)
		require.NoError(t, cache.Set("fake", "x"))
		require.NoError(t, cache.Delete("fake"))
		_, err = cache.Get("fake")
		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("invalid id", func(t *testing.T) {
		cache, err := New[string](t.TempDir(), ModelsCache)
		require.NoError(t, err)
		for _, id := range []string{"", "../x", "a/b", ".hidden"} {
			t.Run(id, func(t *testing.T) {
				require.ErrorIs(t, cache.Set(id, ""), errInvalidID)
				require.ErrorIs(t, cache.Delete(id), errInvalidID)
				_, err := cache.Get(id)
				require.ErrorIs(t, err, errInvalidID)
			})
		}
	})
}

func TestExpiring(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	newCache := func(t *testing.T) *Expiring[string] {
		t.Helper()
		cache, err := NewExpiring[string](t.TempDir(), ModelsCache, time.Hour)
		require.NoError(t, err)
		cache.now = func() time.Time { return now }
		return cache
	}

	t.Run("write and read", func(t *testing.T) {
		cache := newCache(t)
		require.NoError(t, cache.Set("test", "test data"))
		result, err := cache.Get("test")
		require.NoError(t, err)
		require.Equal(t, "test data", result)
	})

	t.Run("expired", func(t *testing.T) {
		cache := newCache(t)
		require.NoError(t, cache.Set("test", "test data"))
		cache.now = func() time.Time { return now.Add(time.Hour) }

		_, err := cache.Get("test")
		require.ErrorIs(t, err, os.ErrNotExist)

		// expired entries are removed
		_, err = cache.cache.Get("test")
		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("overwrite", func(t *testing.T) {
		cache := newCache(t)
		require.NoError(t, cache.Set("test", "test data 1"))
		require.NoError(t, cache.Set("test", "test data 2"))
		result, err := cache.Get("test")
		require.NoError(t, err)
		require.Equal(t, "test data 2", result)
	})
}

func TestModels(t *testing.T) {
	cache, err := NewModels(t.TempDir())
	require.NoError(t, err)

	models := []proto.Model{
		{Name: "models/gemini-2.0-flash", DisplayName: "Gemini 2.0 Flash"},
		{Name: "models/gemini-1.5-flash"},
	}
	require.NoError(t, cache.Set(proto.APIGoogle, models))

	got, err := cache.Get(proto.APIGoogle)
	require.NoError(t, err)
	require.Equal(t, models, got)

	_, err = cache.Get(proto.APIOpenAI)
	require.ErrorIs(t, err, os.ErrNotExist)

	require.NoError(t, cache.Forget(proto.APIGoogle))
	_, err = cache.Get(proto.APIGoogle)
	require.ErrorIs(t, err, os.ErrNotExist)
}
