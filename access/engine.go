package access

import (
	"context"

	"github.com/anschmieg/quartier/internal/apperrors"
	"github.com/anschmieg/quartier/session"
)

// Level is the access class a request resolved to.
type Level int

const (
	// LevelFull grants unfiltered access: a personal credential, or
	// the session owner.
	LevelFull Level = iota
	// LevelGuest grants access filtered by the session's patterns.
	LevelGuest
)

// Request carries everything the engine needs for one decision. The
// caller identity arrives already resolved (header, test override or
// configured fallback) so the engine stays transport-free.
type Request struct {
	Owner         string
	Repo          string
	Path          string
	SessionID     string
	HasCredential bool
	Identity      string
}

// Decision is the outcome of a permitted request. Guests carry the
// compiled patterns used for listing filtration.
type Decision struct {
	Level    Level
	Session  *session.Session
	Patterns []Pattern
}

// Engine gates content reads. Every decision is computed fresh from
// store reads; nothing is cached between requests.
type Engine struct {
	registry *session.Registry
}

func NewEngine(registry *session.Registry) *Engine {
	return &Engine{registry: registry}
}

// Authorize resolves the caller context in order: personal credential
// without a session wins outright; then session membership with
// per-path checks for guests; otherwise the caller is unauthenticated.
func (e *Engine) Authorize(ctx context.Context, req Request) (*Decision, error) {
	if req.HasCredential && req.SessionID == "" {
		return &Decision{Level: LevelFull}, nil
	}

	if req.SessionID != "" {
		return e.authorizeSession(ctx, req)
	}

	return nil, apperrors.AuthRequired("authentication required")
}

func (e *Engine) authorizeSession(ctx context.Context, req Request) (*Decision, error) {
	sess, err := e.registry.Get(ctx, req.SessionID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.Permission("invalid session")
		}
		return nil, err
	}

	if req.Identity == "" || !sess.HasMember(req.Identity) {
		return nil, apperrors.Permission("not a member")
	}
	if req.Identity == sess.Owner {
		return &Decision{Level: LevelFull, Session: sess}, nil
	}

	patterns := Compile(sess.Paths)
	if !Allows(patterns, req.Owner, req.Repo, req.Path) {
		return nil, apperrors.Permission("access denied to this path")
	}
	return &Decision{Level: LevelGuest, Session: sess, Patterns: patterns}, nil
}
