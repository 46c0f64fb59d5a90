package share_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/anschmieg/quartier/internal/apperrors"
	"github.com/anschmieg/quartier/kv/kvfake"
	"github.com/anschmieg/quartier/session"
	"github.com/anschmieg/quartier/share"
)

const (
	testOwnerEmail = "owner@example.com"
	testGuestEmail = "guest@example.com"
)

type serviceFixture struct {
	store    *kvfake.FakeStore
	registry *session.Registry
	service  *share.Service
	now      time.Time
}

func setupServiceFixture(t *testing.T, options ...share.ServiceOption) *serviceFixture {
	t.Helper()

	f := &serviceFixture{
		store: kvfake.NewFakeStore(),
		now:   time.Now(),
	}
	f.store.SetNow(func() time.Time { return f.now })
	f.registry = session.NewRegistry(f.store, session.WithNowTime(func() time.Time { return f.now }))

	options = append([]share.ServiceOption{share.WithNowTime(func() time.Time { return f.now })}, options...)
	f.service = share.NewService(f.store, f.registry, options...)
	return f
}

func (f *serviceFixture) createSession(t *testing.T) *session.Session {
	t.Helper()

	s, err := f.registry.Create(context.Background(), testOwnerEmail, []string{"ada/notes"}, "docs review")
	require.NoError(t, err)
	return s
}

func TestServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("mints a token for the owner", func(t *testing.T) {
		f := setupServiceFixture(t)
		s := f.createSession(t)

		token, err := f.service.Create(ctx, s.ID, testOwnerEmail, share.PermissionView, 0)
		require.NoError(t, err)
		require.Equal(t, s.ID, token.SessionID)
		require.Equal(t, share.PermissionView, token.Permission)
		require.Equal(t, testOwnerEmail, token.CreatedBy)
		require.Zero(t, token.ExpiresAt)
		require.Regexp(t, `^[a-z]+-[a-z]+-[a-z]+$`, token.Token)
	})

	t.Run("only the owner can share", func(t *testing.T) {
		f := setupServiceFixture(t)
		s := f.createSession(t)

		_, err := f.service.Create(ctx, s.ID, testGuestEmail, share.PermissionEdit, 0)
		require.True(t, apperrors.IsPermission(err))
	})

	t.Run("sharing a missing session is not found", func(t *testing.T) {
		f := setupServiceFixture(t)

		_, err := f.service.Create(ctx, "session_missing0000", testOwnerEmail, share.PermissionEdit, 0)
		require.True(t, apperrors.IsNotFound(err))
	})

	t.Run("expiry hours stamp an absolute deadline", func(t *testing.T) {
		f := setupServiceFixture(t)
		s := f.createSession(t)

		token, err := f.service.Create(ctx, s.ID, testOwnerEmail, share.PermissionEdit, 24)
		require.NoError(t, err)
		require.Equal(t, f.now.UnixMilli()+24*int64(time.Hour/time.Millisecond), token.ExpiresAt)
	})

	t.Run("collision retries exhaust to an internal error", func(t *testing.T) {
		f := setupServiceFixture(t, share.WithTokenGenerator(func() string { return "same-words-always" }))
		s := f.createSession(t)

		_, err := f.service.Create(ctx, s.ID, testOwnerEmail, share.PermissionEdit, 0)
		require.NoError(t, err)

		_, err = f.service.Create(ctx, s.ID, testOwnerEmail, share.PermissionEdit, 0)
		require.True(t, apperrors.IsKind(err, apperrors.KindInternal))
	})
}

func TestServiceValidateAndResolve(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves a live token to its session", func(t *testing.T) {
		f := setupServiceFixture(t)
		s := f.createSession(t)
		token, err := f.service.Create(ctx, s.ID, testOwnerEmail, share.PermissionView, 0)
		require.NoError(t, err)

		res, err := f.service.ValidateAndResolve(ctx, token.Token)
		require.NoError(t, err)
		require.Equal(t, s.ID, res.Session.ID)
		require.Equal(t, share.PermissionView, res.Permission)
	})

	t.Run("unknown token is not found", func(t *testing.T) {
		f := setupServiceFixture(t)

		_, err := f.service.ValidateAndResolve(ctx, "never-minted-token")
		require.True(t, apperrors.IsNotFound(err))
	})

	t.Run("stamped expiry in the past is gone", func(t *testing.T) {
		// The store keeps the record (its TTL has not elapsed on the
		// real clock) while the service clock runs past the stamp.
		store := kvfake.NewFakeStore()
		registry := session.NewRegistry(store)
		now := time.Now()
		service := share.NewService(store, registry, share.WithNowTime(func() time.Time { return now }))

		s, err := registry.Create(ctx, testOwnerEmail, []string{"ada/notes"}, "")
		require.NoError(t, err)
		token, err := service.Create(ctx, s.ID, testOwnerEmail, share.PermissionEdit, 1)
		require.NoError(t, err)

		now = now.Add(61 * time.Minute)
		_, err = service.ValidateAndResolve(ctx, token.Token)
		require.True(t, apperrors.IsGone(err))
	})

	t.Run("deleted session invalidates the token", func(t *testing.T) {
		f := setupServiceFixture(t)
		s := f.createSession(t)
		token, err := f.service.Create(ctx, s.ID, testOwnerEmail, share.PermissionEdit, 0)
		require.NoError(t, err)

		// A dangling token record left behind by a partial cascade must
		// still refuse to resolve.
		require.NoError(t, f.store.Delete(ctx, "session:"+s.ID))
		_, err = f.service.ValidateAndResolve(ctx, token.Token)
		require.True(t, apperrors.IsNotFound(err))
	})
}

func TestServiceJoin(t *testing.T) {
	ctx := context.Background()

	t.Run("anonymous callers must sign in", func(t *testing.T) {
		f := setupServiceFixture(t)

		_, err := f.service.Join(ctx, "any-token-here", "")
		require.True(t, apperrors.IsAuthRequired(err))
	})

	t.Run("join adds the caller and reports the permission", func(t *testing.T) {
		f := setupServiceFixture(t)
		s := f.createSession(t)
		token, err := f.service.Create(ctx, s.ID, testOwnerEmail, share.PermissionView, 0)
		require.NoError(t, err)

		res, err := f.service.Join(ctx, token.Token, testGuestEmail)
		require.NoError(t, err)
		require.Equal(t, share.PermissionView, res.Permission)
		require.Equal(t, 2, res.Session.MemberCount)

		joined, err := f.registry.Get(ctx, s.ID)
		require.NoError(t, err)
		require.True(t, joined.HasMember(testGuestEmail))
	})

	t.Run("joining twice stays idempotent", func(t *testing.T) {
		f := setupServiceFixture(t)
		s := f.createSession(t)
		token, err := f.service.Create(ctx, s.ID, testOwnerEmail, share.PermissionEdit, 0)
		require.NoError(t, err)

		_, err = f.service.Join(ctx, token.Token, testGuestEmail)
		require.NoError(t, err)
		res, err := f.service.Join(ctx, token.Token, testGuestEmail)
		require.NoError(t, err)
		require.Equal(t, 2, res.Session.MemberCount)
	})
}

func TestServiceRevoke(t *testing.T) {
	ctx := context.Background()

	t.Run("owner revocation removes the token", func(t *testing.T) {
		f := setupServiceFixture(t)
		s := f.createSession(t)
		token, err := f.service.Create(ctx, s.ID, testOwnerEmail, share.PermissionEdit, 0)
		require.NoError(t, err)

		require.NoError(t, f.service.Revoke(ctx, s.ID, token.Token, testOwnerEmail))

		_, err = f.service.ValidateAndResolve(ctx, token.Token)
		require.True(t, apperrors.IsNotFound(err))

		tokens, err := f.service.List(ctx, s.ID, testOwnerEmail)
		require.NoError(t, err)
		require.Empty(t, tokens)
	})

	t.Run("only the owner can revoke", func(t *testing.T) {
		f := setupServiceFixture(t)
		s := f.createSession(t)
		token, err := f.service.Create(ctx, s.ID, testOwnerEmail, share.PermissionEdit, 0)
		require.NoError(t, err)

		err = f.service.Revoke(ctx, s.ID, token.Token, testGuestEmail)
		require.True(t, apperrors.IsPermission(err))
	})

	t.Run("an expired token can still be revoked", func(t *testing.T) {
		f := setupServiceFixture(t)
		s := f.createSession(t)
		token, err := f.service.Create(ctx, s.ID, testOwnerEmail, share.PermissionEdit, 1)
		require.NoError(t, err)

		f.now = f.now.Add(2 * time.Hour)
		require.NoError(t, f.service.Revoke(ctx, s.ID, token.Token, testOwnerEmail))
	})
}

func TestServiceList(t *testing.T) {
	ctx := context.Background()

	t.Run("only the owner can list", func(t *testing.T) {
		f := setupServiceFixture(t)
		s := f.createSession(t)

		_, err := f.service.List(ctx, s.ID, testGuestEmail)
		require.True(t, apperrors.IsPermission(err))
	})

	t.Run("reaped tokens are skipped silently", func(t *testing.T) {
		f := setupServiceFixture(t)
		s := f.createSession(t)

		short, err := f.service.Create(ctx, s.ID, testOwnerEmail, share.PermissionEdit, 1)
		require.NoError(t, err)
		long, err := f.service.Create(ctx, s.ID, testOwnerEmail, share.PermissionEdit, 48)
		require.NoError(t, err)

		f.now = f.now.Add(2 * time.Hour)
		tokens, err := f.service.List(ctx, s.ID, testOwnerEmail)
		require.NoError(t, err)
		require.Len(t, tokens, 1)
		require.Equal(t, long.Token, tokens[0].Token)
		require.NotEqual(t, short.Token, tokens[0].Token)
	})
}

func TestParsePermission(t *testing.T) {
	t.Run("empty defaults to edit", func(t *testing.T) {
		p, err := share.ParsePermission("")
		require.NoError(t, err)
		require.Equal(t, share.PermissionEdit, p)
	})

	t.Run("known values parse", func(t *testing.T) {
		p, err := share.ParsePermission("view")
		require.NoError(t, err)
		require.Equal(t, share.PermissionView, p)
	})

	t.Run("unknown values are rejected", func(t *testing.T) {
		_, err := share.ParsePermission("admin")
		require.True(t, apperrors.IsValidation(err))
	})
}

func TestNewToken(t *testing.T) {
	token := share.NewToken()
	require.Regexp(t, `^[a-z]+-[a-z]+-[a-z]+$`, token)
	require.NotEqual(t, token, share.NewToken())
}
