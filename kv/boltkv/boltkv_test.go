package boltkv_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/anschmieg/quartier/kv"
	"github.com/anschmieg/quartier/kv/boltkv"
)

func openTestStore(t *testing.T, opts ...boltkv.Option) *boltkv.Store {
	t.Helper()

	store, err := boltkv.Open(filepath.Join(t.TempDir(), "test.db"), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestBoltStore(t *testing.T) {
	ctx := context.Background()

	t.Run("round trips values", func(t *testing.T) {
		store := openTestStore(t)

		require.NoError(t, store.Put(ctx, "session:abc", []byte(`{"id":"abc"}`)))
		got, err := store.Get(ctx, "session:abc")
		require.NoError(t, err)
		require.JSONEq(t, `{"id":"abc"}`, string(got))
	})

	t.Run("missing keys are not found", func(t *testing.T) {
		store := openTestStore(t)

		_, err := store.Get(ctx, "absent")
		require.ErrorIs(t, err, kv.ErrNotFound)
	})

	t.Run("expired records read as absent", func(t *testing.T) {
		now := time.Now()
		store := openTestStore(t, boltkv.WithNowFunc(func() time.Time { return now }))

		require.NoError(t, store.Put(ctx, "k", []byte("v"), kv.WithTTL(time.Minute)))
		now = now.Add(2 * time.Minute)

		_, err := store.Get(ctx, "k")
		require.ErrorIs(t, err, kv.ErrNotFound)
	})

	t.Run("list honours prefix and skips expired", func(t *testing.T) {
		now := time.Now()
		store := openTestStore(t, boltkv.WithNowFunc(func() time.Time { return now }))

		require.NoError(t, store.Put(ctx, "share:live", []byte("1")))
		require.NoError(t, store.Put(ctx, "share:dead", []byte("2"), kv.WithTTL(time.Minute)))
		require.NoError(t, store.Put(ctx, "session:x", []byte("3")))
		now = now.Add(2 * time.Minute)

		keys, err := store.List(ctx, "share:")
		require.NoError(t, err)
		require.Equal(t, []string{"share:live"}, keys)
	})

	t.Run("sweep reclaims expired records", func(t *testing.T) {
		now := time.Now()
		store := openTestStore(t, boltkv.WithNowFunc(func() time.Time { return now }))

		require.NoError(t, store.Put(ctx, "a", []byte("1"), kv.WithTTL(time.Minute)))
		require.NoError(t, store.Put(ctx, "b", []byte("2"), kv.WithTTL(time.Minute)))
		require.NoError(t, store.Put(ctx, "c", []byte("3")))
		now = now.Add(2 * time.Minute)

		removed, err := store.Sweep(ctx)
		require.NoError(t, err)
		require.Equal(t, 2, removed)

		_, err = store.Get(ctx, "c")
		require.NoError(t, err)
	})

	t.Run("json helpers round trip", func(t *testing.T) {
		store := openTestStore(t)

		require.NoError(t, kv.PutJSON(ctx, store, "sessions:ada", []string{"a"}))
		ids, err := kv.GetStringList(ctx, store, "sessions:ada")
		require.NoError(t, err)
		require.Equal(t, []string{"a"}, ids)
	})
}
