// Package guard throttles callers with fixed-window counters persisted
// in the key-value store. It is best-effort abuse mitigation, not a
// strict quota: counters may undercount under concurrent requests, and
// a store outage fails open rather than blocking all traffic.
package guard

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/anschmieg/quartier/kv"
)

// Scope names a logical request class with its own limit and window.
type Scope struct {
	Name   string
	Limit  int
	Window time.Duration
}

// Default scopes, tuned per request class.
var (
	ScopeGlobal        = Scope{Name: "global", Limit: 60, Window: time.Minute}
	ScopeSessionCreate = Scope{Name: "sessions:post", Limit: 20, Window: time.Minute}
	ScopeSessionList   = Scope{Name: "sessions:get", Limit: 50, Window: time.Minute}
	ScopeContent       = Scope{Name: "content", Limit: 60, Window: time.Minute}
	ScopeCommit        = Scope{Name: "commit", Limit: 30, Window: time.Minute}
)

// Result reports a single limit check.
type Result struct {
	Allowed   bool
	Remaining int
	Limit     int
	ResetAt   int64 // unix seconds when the current window closes
}

// Guard evaluates fixed-window limits. The window key self-expires with
// a TTL equal to the window length and is never read outside it.
type Guard struct {
	store   kv.Store
	nowTime func() time.Time
}

type Option func(*Guard)

// WithNowTime sets the now time function (primarily for testing).
func WithNowTime(nowFunc func() time.Time) Option {
	return func(g *Guard) {
		g.nowTime = nowFunc
	}
}

func New(store kv.Store, options ...Option) *Guard {
	g := &Guard{
		store:   store,
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(g)
	}
	return g
}

// Check reads the counter for the active window and increments it when
// the caller is still under the limit. A denied check does not
// increment. Store failures are logged and treated as allowed.
func (g *Guard) Check(ctx context.Context, scope Scope, identity string) Result {
	windowSeconds := int64(scope.Window / time.Second)
	now := g.nowTime().Unix()
	window := now / windowSeconds
	key := kv.RateLimitKey(scope.Name, identity, window)
	resetAt := (window + 1) * windowSeconds

	count := 0
	raw, err := g.store.Get(ctx, key)
	switch {
	case errors.Is(err, kv.ErrNotFound):
		// first request of the window
	case err != nil:
		log.Warn().Err(err).Str("scope", scope.Name).Msg("rate guard read failed, allowing request")
		return Result{Allowed: true, Remaining: scope.Limit - 1, Limit: scope.Limit, ResetAt: resetAt}
	default:
		count, _ = strconv.Atoi(string(raw))
	}

	if count >= scope.Limit {
		return Result{Allowed: false, Remaining: 0, Limit: scope.Limit, ResetAt: resetAt}
	}

	err = g.store.Put(ctx, key, []byte(strconv.Itoa(count+1)), kv.WithTTL(scope.Window))
	if err != nil {
		log.Warn().Err(err).Str("scope", scope.Name).Msg("rate guard write failed, allowing request")
	}
	return Result{Allowed: true, Remaining: scope.Limit - count - 1, Limit: scope.Limit, ResetAt: resetAt}
}

// TokenDigest derives a stable rate-limit identity from a personal
// credential without storing the credential itself: the first eight
// bytes of its SHA-256, hex encoded.
func TokenDigest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:8])
}
