package storage

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drama-catalog-service/internal/domain"
)

// backends runs the same contract against every Storage implementation.
func backends(t *testing.T) map[string]domain.Storage {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})

	fileStore, err := NewFileStorage(afero.NewMemMapFs(), "/data")
	require.NoError(t, err)

	return map[string]domain.Storage{
		"redis": NewRedisStorage(client, "drama-catalog"),
		"file":  fileStore,
	}
}

func TestStorage_SetGet(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			require.NoError(t, store.Set(ctx, "watch_history", []byte(`[{"id":"1"}]`)))

			got, err := store.Get(ctx, "watch_history")
			require.NoError(t, err)
			assert.Equal(t, []byte(`[{"id":"1"}]`), got)
		})
	}
}

func TestStorage_Get_Missing(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Get(context.Background(), "nope")
			assert.ErrorIs(t, err, domain.ErrKeyNotFound)
		})
	}
}

func TestStorage_Set_Overwrites(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			require.NoError(t, store.Set(ctx, "k", []byte("old")))
			require.NoError(t, store.Set(ctx, "k", []byte("new")))

			got, err := store.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, []byte("new"), got)
		})
	}
}

func TestStorage_Remove(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			require.NoError(t, store.Set(ctx, "k", []byte("v")))
			require.NoError(t, store.Remove(ctx, "k"))

			_, err := store.Get(ctx, "k")
			assert.ErrorIs(t, err, domain.ErrKeyNotFound)

			assert.NoError(t, store.Remove(ctx, "k"), "removing an absent key is fine")
		})
	}
}
