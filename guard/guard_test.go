package guard_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/anschmieg/quartier/guard"
	"github.com/anschmieg/quartier/kv/kvfake"
)

const testIdentity = "caller@example.com"

var testScope = guard.Scope{Name: "test", Limit: 3, Window: time.Minute}

type guardFixture struct {
	store *kvfake.FakeStore
	guard *guard.Guard
	now   time.Time
}

func setupGuardFixture(t *testing.T) *guardFixture {
	t.Helper()

	f := &guardFixture{
		store: kvfake.NewFakeStore(),
		now:   time.Unix(1_700_000_000, 0),
	}
	f.store.SetNow(func() time.Time { return f.now })
	f.guard = guard.New(f.store, guard.WithNowTime(func() time.Time { return f.now }))
	return f
}

func TestGuardCheck(t *testing.T) {
	ctx := context.Background()

	t.Run("counts down remaining within the window", func(t *testing.T) {
		f := setupGuardFixture(t)

		res := f.guard.Check(ctx, testScope, testIdentity)
		require.True(t, res.Allowed)
		require.Equal(t, 2, res.Remaining)
		require.Equal(t, testScope.Limit, res.Limit)

		res = f.guard.Check(ctx, testScope, testIdentity)
		require.True(t, res.Allowed)
		require.Equal(t, 1, res.Remaining)
	})

	t.Run("denies once the limit is reached", func(t *testing.T) {
		f := setupGuardFixture(t)

		for i := 0; i < testScope.Limit; i++ {
			require.True(t, f.guard.Check(ctx, testScope, testIdentity).Allowed)
		}
		res := f.guard.Check(ctx, testScope, testIdentity)
		require.False(t, res.Allowed)
		require.Zero(t, res.Remaining)
	})

	t.Run("a denied check does not burn the next window", func(t *testing.T) {
		f := setupGuardFixture(t)

		for i := 0; i < testScope.Limit+5; i++ {
			f.guard.Check(ctx, testScope, testIdentity)
		}
		f.now = f.now.Add(testScope.Window)

		res := f.guard.Check(ctx, testScope, testIdentity)
		require.True(t, res.Allowed)
		require.Equal(t, testScope.Limit-1, res.Remaining)
	})

	t.Run("identities do not share counters", func(t *testing.T) {
		f := setupGuardFixture(t)

		for i := 0; i < testScope.Limit; i++ {
			require.True(t, f.guard.Check(ctx, testScope, testIdentity).Allowed)
		}
		require.False(t, f.guard.Check(ctx, testScope, testIdentity).Allowed)
		require.True(t, f.guard.Check(ctx, testScope, "other@example.com").Allowed)
	})

	t.Run("scopes do not share counters", func(t *testing.T) {
		f := setupGuardFixture(t)
		other := guard.Scope{Name: "other", Limit: 3, Window: time.Minute}

		for i := 0; i < testScope.Limit; i++ {
			require.True(t, f.guard.Check(ctx, testScope, testIdentity).Allowed)
		}
		require.False(t, f.guard.Check(ctx, testScope, testIdentity).Allowed)
		require.True(t, f.guard.Check(ctx, other, testIdentity).Allowed)
	})

	t.Run("reset reports the end of the current window", func(t *testing.T) {
		f := setupGuardFixture(t)

		res := f.guard.Check(ctx, testScope, testIdentity)
		windowSeconds := int64(testScope.Window / time.Second)
		expected := (f.now.Unix()/windowSeconds + 1) * windowSeconds
		require.Equal(t, expected, res.ResetAt)
	})

	t.Run("store outage fails open", func(t *testing.T) {
		f := setupGuardFixture(t)
		f.store.FailWith(errors.New("store down"))

		res := f.guard.Check(ctx, testScope, testIdentity)
		require.True(t, res.Allowed)
	})
}

func TestTokenDigest(t *testing.T) {
	t.Run("stable and token-specific", func(t *testing.T) {
		require.Equal(t, guard.TokenDigest("gho_abc"), guard.TokenDigest("gho_abc"))
		require.NotEqual(t, guard.TokenDigest("gho_abc"), guard.TokenDigest("gho_def"))
	})

	t.Run("never echoes the token", func(t *testing.T) {
		digest := guard.TokenDigest("gho_supersecret")
		require.Len(t, digest, 16)
		require.NotContains(t, digest, "gho_")
	})
}
