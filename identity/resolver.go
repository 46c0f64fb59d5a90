// Package identity resolves the caller's identity (an email string)
// from a request. Resolution is a strategy chain so tests can bind
// arbitrary identities without touching transport headers, and so
// deployments can mix an access proxy, a signed dev cookie and a
// configured fallback.
package identity

import "net/http"

// Header names recognised by the built-in resolvers.
const (
	// AccessEmailHeader is set by the access proxy in front of the
	// service for authenticated users.
	AccessEmailHeader = "Cf-Access-Authenticated-User-Email"

	// AccessJWTHeader carries the proxy's signed assertion.
	AccessJWTHeader = "Cf-Access-Jwt-Assertion"

	// OverrideHeader lets tests and local tooling bind an explicit
	// identity, or force anonymity with the value "none".
	OverrideHeader = "X-Dev-User"
)

// Resolver produces a caller identity from a request. The second return
// reports whether the resolver reached a conclusive answer; a
// conclusive empty identity means "definitely anonymous" and stops the
// chain.
type Resolver interface {
	Resolve(r *http.Request) (identity string, conclusive bool)
}

// Chain tries each resolver in order; the first conclusive answer wins.
type Chain []Resolver

func (c Chain) Resolve(r *http.Request) (string, bool) {
	for _, resolver := range c {
		if identity, ok := resolver.Resolve(r); ok {
			return identity, true
		}
	}
	return "", false
}

// Identity runs the chain and collapses an inconclusive result to
// anonymous.
func Identity(resolver Resolver, r *http.Request) string {
	identity, _ := resolver.Resolve(r)
	return identity
}

// OverrideResolver honours the test/dev override header. "none" forces
// an anonymous caller.
type OverrideResolver struct{}

func (OverrideResolver) Resolve(r *http.Request) (string, bool) {
	v := r.Header.Get(OverrideHeader)
	if v == "" {
		return "", false
	}
	if v == "none" {
		return "", true
	}
	return v, true
}

// HeaderResolver trusts a plain identity header. Only safe when the
// header is stripped and re-set by a proxy the service sits behind.
type HeaderResolver struct {
	Header string
}

func (h HeaderResolver) Resolve(r *http.Request) (string, bool) {
	if v := r.Header.Get(h.Header); v != "" {
		return v, true
	}
	return "", false
}

// StaticResolver supplies a configured fallback identity, for local
// development without any auth proxy.
type StaticResolver struct {
	Identity string
}

func (s StaticResolver) Resolve(r *http.Request) (string, bool) {
	if s.Identity == "" {
		return "", false
	}
	return s.Identity, true
}
