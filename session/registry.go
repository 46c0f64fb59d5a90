package session

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/anschmieg/quartier/internal/apperrors"
	"github.com/anschmieg/quartier/kv"
)

const defaultSessionTTL = 90 * 24 * time.Hour

// Registry manages the session lifecycle and keeps the owner and member
// indexes in step with it. Every operation is computed fresh from store
// reads; there is no in-process state.
type Registry struct {
	store      kv.Store
	sessionTTL time.Duration
	nowTime    func() time.Time
}

type RegistryOption func(*Registry)

// WithNowTime sets the now time function (primarily for testing).
func WithNowTime(nowFunc func() time.Time) RegistryOption {
	return func(r *Registry) {
		r.nowTime = nowFunc
	}
}

// WithSessionTTL overrides the default 90-day session record TTL.
func WithSessionTTL(ttl time.Duration) RegistryOption {
	return func(r *Registry) {
		r.sessionTTL = ttl
	}
}

func NewRegistry(store kv.Store, options ...RegistryOption) *Registry {
	r := &Registry{
		store:      store,
		sessionTTL: defaultSessionTTL,
		nowTime:    time.Now,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// Create validates the capability patterns, persists a new session and
// appends its id to the owner's index. The owner is always the first
// member.
func (r *Registry) Create(ctx context.Context, owner string, paths []string, name string) (*Session, error) {
	if err := ValidatePaths(paths); err != nil {
		return nil, err
	}

	s := &Session{
		ID:      NewID(),
		Owner:   owner,
		Paths:   paths,
		Members: []string{owner},
		Created: nowMillis(r.nowTime),
		Name:    name,
	}

	if err := kv.PutJSON(ctx, r.store, kv.SessionKey(s.ID), s, kv.WithTTL(r.sessionTTL)); err != nil {
		return nil, apperrors.Internal(err, "failed to create session")
	}
	if err := r.appendToIndex(ctx, kv.OwnerIndexKey(owner), s.ID); err != nil {
		return nil, apperrors.Internal(err, "failed to index session")
	}
	return s, nil
}

// Get returns the session or a not-found error. Stale index entries
// pointing at deleted sessions resolve here to not-found, never to a
// panic or an internal error.
func (r *Registry) Get(ctx context.Context, id string) (*Session, error) {
	var s Session
	if err := r.store.GetJSON(ctx, kv.SessionKey(id), &s); err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, apperrors.NotFound("session not found")
		}
		return nil, apperrors.Internal(err, "failed to load session")
	}
	return &s, nil
}

// Join adds caller to the member set. Re-joining is a no-op, not an
// error.
func (r *Registry) Join(ctx context.Context, id, caller string) (*Session, error) {
	s, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.HasMember(caller) {
		return s, nil
	}

	s.Members = append(s.Members, caller)
	if err := kv.PutJSON(ctx, r.store, kv.SessionKey(s.ID), s, kv.WithTTL(r.sessionTTL)); err != nil {
		return nil, apperrors.Internal(err, "failed to update session")
	}
	if err := r.appendToIndex(ctx, kv.MemberIndexKey(caller), s.ID); err != nil {
		return nil, apperrors.Internal(err, "failed to index membership")
	}
	return s, nil
}

// Delete removes a session and cascades to its share tokens and index
// entries. Owner-only. Deletions run best-effort in a fixed order
// (tokens, indexes, session record) so that a crash mid-delete leaves at
// worst dangling index entries pointing at an already-gone session.
func (r *Registry) Delete(ctx context.Context, id, caller string) error {
	s, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	if s.Owner != caller {
		return apperrors.Permission("only session owner can delete")
	}

	// Share tokens first: a token must never outlive its usefulness
	// longer than an index entry does.
	tokensKey := kv.SessionTokensKey(id)
	tokenIDs, err := kv.GetStringList(ctx, r.store, tokensKey)
	if err != nil {
		log.Warn().Err(err).Str("session", id).Msg("delete: failed to read token index")
		tokenIDs = nil
	}
	for _, token := range tokenIDs {
		if err := r.store.Delete(ctx, kv.ShareTokenKey(token)); err != nil {
			log.Warn().Err(err).Str("session", id).Msg("delete: failed to remove share token")
		}
	}
	if err := r.store.Delete(ctx, tokensKey); err != nil {
		log.Warn().Err(err).Str("session", id).Msg("delete: failed to remove token index")
	}

	if err := r.removeFromIndex(ctx, kv.OwnerIndexKey(s.Owner), id); err != nil {
		log.Warn().Err(err).Str("session", id).Msg("delete: failed to update owner index")
	}
	for _, member := range s.Members {
		if member == s.Owner {
			continue
		}
		if err := r.removeFromIndex(ctx, kv.MemberIndexKey(member), id); err != nil {
			log.Warn().Err(err).Str("session", id).Str("member", member).Msg("delete: failed to update member index")
		}
	}

	if err := r.store.Delete(ctx, kv.SessionKey(id)); err != nil {
		return apperrors.Internal(err, "failed to delete session")
	}
	return nil
}

// ListOwned returns the sessions an identity owns, skipping index
// entries whose record is gone.
func (r *Registry) ListOwned(ctx context.Context, identity string) ([]*Session, error) {
	ids, err := kv.GetStringList(ctx, r.store, kv.OwnerIndexKey(identity))
	if err != nil {
		return nil, apperrors.Internal(err, "failed to list sessions")
	}

	sessions := make([]*Session, 0, len(ids))
	for _, id := range ids {
		s, err := r.Get(ctx, id)
		if err != nil {
			if apperrors.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, nil
}

// ListShared returns masked summaries of the sessions an identity is a
// member of but does not own.
func (r *Registry) ListShared(ctx context.Context, identity string) ([]Summary, error) {
	ids, err := kv.GetStringList(ctx, r.store, kv.MemberIndexKey(identity))
	if err != nil {
		return nil, apperrors.Internal(err, "failed to list shared sessions")
	}

	summaries := make([]Summary, 0, len(ids))
	for _, id := range ids {
		s, err := r.Get(ctx, id)
		if err != nil {
			if apperrors.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		if s.Owner == identity {
			continue
		}
		summaries = append(summaries, s.Summarize())
	}
	return summaries, nil
}

// appendToIndex is a read-modify-write append without concurrency
// control; concurrent appends against the same key can race. Accepted
// weakness of the underlying store contract.
func (r *Registry) appendToIndex(ctx context.Context, key, id string) error {
	ids, err := kv.GetStringList(ctx, r.store, key)
	if err != nil {
		return errors.Wrap(err, "[Registry.appendToIndex] read")
	}
	for _, existing := range ids {
		if existing == id {
			return nil
		}
	}
	ids = append(ids, id)
	return errors.Wrap(kv.PutJSON(ctx, r.store, key, ids), "[Registry.appendToIndex] write")
}

func (r *Registry) removeFromIndex(ctx context.Context, key, id string) error {
	ids, err := kv.GetStringList(ctx, r.store, key)
	if err != nil {
		return errors.Wrap(err, "[Registry.removeFromIndex] read")
	}
	updated := make([]string, 0, len(ids))
	for _, existing := range ids {
		if existing != id {
			updated = append(updated, existing)
		}
	}
	return errors.Wrap(kv.PutJSON(ctx, r.store, key, updated), "[Registry.removeFromIndex] write")
}
