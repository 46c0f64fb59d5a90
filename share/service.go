package share

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/anschmieg/quartier/internal/apperrors"
	"github.com/anschmieg/quartier/kv"
	"github.com/anschmieg/quartier/session"
)

const (
	defaultTokenTTL = 90 * 24 * time.Hour
	maxMintAttempts = 5
	hoursToMillis   = int64(time.Hour / time.Millisecond)
)

// Resolution is the outcome of a successful token validation.
type Resolution struct {
	Session    *session.Session
	Permission Permission
}

// JoinResult is returned to a caller who joined a session via token.
type JoinResult struct {
	Session    session.Summary
	Permission Permission
}

// Service mints and resolves share tokens. Token TTL and session
// lifetime are independent: every resolution re-checks the session.
type Service struct {
	store    kv.Store
	registry *session.Registry
	nowTime  func() time.Time
	generate func() string
}

type ServiceOption func(*Service)

// WithNowTime sets the now time function (primarily for testing).
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

// WithTokenGenerator replaces the token source, e.g. to force
// collisions in tests.
func WithTokenGenerator(gen func() string) ServiceOption {
	return func(s *Service) {
		s.generate = gen
	}
}

func NewService(store kv.Store, registry *session.Registry, options ...ServiceOption) *Service {
	s := &Service{
		store:    store,
		registry: registry,
		nowTime:  time.Now,
		generate: NewToken,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Create mints a share token for a session. Owner-only. A zero
// expiresInHours means the token lives for the 90-day storage default
// with no absolute expiry stamp.
func (s *Service) Create(ctx context.Context, sessionID, caller string, permission Permission, expiresInHours int) (*ShareToken, error) {
	sess, err := s.registry.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Owner != caller {
		return nil, apperrors.Permission("only owner can share")
	}
	if permission == "" {
		permission = PermissionEdit
	}

	token, err := s.mintUnique(ctx)
	if err != nil {
		return nil, err
	}

	now := s.nowTime().UnixMilli()
	st := &ShareToken{
		Token:      token,
		SessionID:  sess.ID,
		Permission: permission,
		CreatedBy:  caller,
		Created:    now,
	}
	ttl := defaultTokenTTL
	if expiresInHours > 0 {
		st.ExpiresAt = now + int64(expiresInHours)*hoursToMillis
		ttl = time.Duration(expiresInHours) * time.Hour
	}

	if err := kv.PutJSON(ctx, s.store, kv.ShareTokenKey(token), st, kv.WithTTL(ttl)); err != nil {
		return nil, apperrors.Internal(err, "failed to create share link")
	}
	if err := s.appendToTokenIndex(ctx, sessionID, token); err != nil {
		return nil, apperrors.Internal(err, "failed to index share link")
	}
	return st, nil
}

// ValidateAndResolve resolves a token to its session and permission.
// The session check runs even when the token record is present: the
// two lifetimes are independent.
func (s *Service) ValidateAndResolve(ctx context.Context, token string) (*Resolution, error) {
	var st ShareToken
	if err := s.store.GetJSON(ctx, kv.ShareTokenKey(token), &st); err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, apperrors.NotFound("invalid or expired link")
		}
		return nil, apperrors.Internal(err, "failed to validate link")
	}
	if st.ExpiresAt > 0 && s.nowTime().UnixMilli() > st.ExpiresAt {
		return nil, apperrors.Gone("link has expired")
	}

	sess, err := s.registry.Get(ctx, st.SessionID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NotFound("session no longer exists")
		}
		return nil, err
	}
	return &Resolution{Session: sess, Permission: st.Permission}, nil
}

// Join validates the token and adds caller to the session's members.
// Joining twice is a no-op.
func (s *Service) Join(ctx context.Context, token, caller string) (*JoinResult, error) {
	if caller == "" {
		return nil, apperrors.AuthRequired("please sign in to join")
	}

	res, err := s.ValidateAndResolve(ctx, token)
	if err != nil {
		return nil, err
	}
	sess, err := s.registry.Join(ctx, res.Session.ID, caller)
	if err != nil {
		return nil, err
	}
	return &JoinResult{Session: sess.Summarize(), Permission: res.Permission}, nil
}

// Revoke deletes a token and removes it from the session's index.
// Owner-only. An already-expired token can still be revoked.
func (s *Service) Revoke(ctx context.Context, sessionID, token, caller string) error {
	sess, err := s.registry.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if sess.Owner != caller {
		return apperrors.Permission("only owner can revoke share links")
	}

	if err := s.store.Delete(ctx, kv.ShareTokenKey(token)); err != nil {
		return apperrors.Internal(err, "failed to revoke share link")
	}
	if err := s.removeFromTokenIndex(ctx, sessionID, token); err != nil {
		return apperrors.Internal(err, "failed to update share link index")
	}
	return nil
}

// List returns the live share tokens of a session, silently skipping
// index entries whose record has been reaped. Owner-only.
func (s *Service) List(ctx context.Context, sessionID, caller string) ([]*ShareToken, error) {
	sess, err := s.registry.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Owner != caller {
		return nil, apperrors.Permission("only owner can view share links")
	}

	ids, err := kv.GetStringList(ctx, s.store, kv.SessionTokensKey(sessionID))
	if err != nil {
		return nil, apperrors.Internal(err, "failed to list share links")
	}

	tokens := make([]*ShareToken, 0, len(ids))
	for _, id := range ids {
		var st ShareToken
		if err := s.store.GetJSON(ctx, kv.ShareTokenKey(id), &st); err != nil {
			if errors.Is(err, kv.ErrNotFound) {
				continue
			}
			return nil, apperrors.Internal(err, "failed to list share links")
		}
		tokens = append(tokens, &st)
	}
	return tokens, nil
}

// mintUnique regenerates on collision, giving up after maxMintAttempts.
func (s *Service) mintUnique(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxMintAttempts; attempt++ {
		token := s.generate()
		_, err := s.store.Get(ctx, kv.ShareTokenKey(token))
		if errors.Is(err, kv.ErrNotFound) {
			return token, nil
		}
		if err != nil {
			return "", apperrors.Internal(err, "failed to generate share link")
		}
	}
	return "", apperrors.Internal(nil, "failed to generate unique share link")
}

func (s *Service) appendToTokenIndex(ctx context.Context, sessionID, token string) error {
	key := kv.SessionTokensKey(sessionID)
	ids, err := kv.GetStringList(ctx, s.store, key)
	if err != nil {
		return errors.Wrap(err, "[Service.appendToTokenIndex] read")
	}
	ids = append(ids, token)
	return errors.Wrap(kv.PutJSON(ctx, s.store, key, ids), "[Service.appendToTokenIndex] write")
}

func (s *Service) removeFromTokenIndex(ctx context.Context, sessionID, token string) error {
	key := kv.SessionTokensKey(sessionID)
	ids, err := kv.GetStringList(ctx, s.store, key)
	if err != nil {
		return errors.Wrap(err, "[Service.removeFromTokenIndex] read")
	}
	updated := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != token {
			updated = append(updated, id)
		}
	}
	return errors.Wrap(kv.PutJSON(ctx, s.store, key, updated), "[Service.removeFromTokenIndex] write")
}
