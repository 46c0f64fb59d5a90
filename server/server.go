// Package server wires the session registry, share token service, path
// authorization engine and rate guard onto an HTTP surface.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/anschmieg/quartier/access"
	"github.com/anschmieg/quartier/gitcontent"
	"github.com/anschmieg/quartier/guard"
	"github.com/anschmieg/quartier/identity"
	"github.com/anschmieg/quartier/internal/config"
	"github.com/anschmieg/quartier/internal/metrics"
	"github.com/anschmieg/quartier/kv"
	"github.com/anschmieg/quartier/session"
	"github.com/anschmieg/quartier/share"
)

type Server struct {
	env    string // Environment (e.g., "DEV", "production")
	mux    *http.ServeMux
	routes []string
	config config.Config

	sessions *session.Registry
	shares   *share.Service
	engine   *access.Engine
	guard    *guard.Guard
	resolver identity.Resolver
	gateway  gitcontent.Gateway
	metrics  *metrics.Metrics
}

// Deps carries the service dependencies the server routes to. Optional
// fields fall back to production defaults.
type Deps struct {
	Store    kv.Store
	Sessions *session.Registry
	Shares   *share.Service
	Guard    *guard.Guard
	Resolver identity.Resolver
	Gateway  gitcontent.Gateway
	Metrics  *metrics.Metrics
}

func New(cfg config.Config, deps Deps) *Server {
	if deps.Sessions == nil {
		deps.Sessions = session.NewRegistry(deps.Store)
	}
	if deps.Shares == nil {
		deps.Shares = share.NewService(deps.Store, deps.Sessions)
	}
	if deps.Guard == nil {
		deps.Guard = guard.New(deps.Store)
	}
	if deps.Resolver == nil {
		deps.Resolver = DefaultResolver(context.Background(), cfg)
	}
	if deps.Gateway == nil {
		deps.Gateway = gitcontent.NewGitHubGateway()
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.New()
	}

	s := &Server{
		mux:      http.NewServeMux(),
		config:   cfg,
		sessions: deps.Sessions,
		shares:   deps.Shares,
		engine:   access.NewEngine(deps.Sessions),
		guard:    deps.Guard,
		resolver: deps.Resolver,
		gateway:  deps.Gateway,
		metrics:  deps.Metrics,
	}
	s.env = cfg.GetEnv()

	s.initRoutes()
	s.logRoutes()

	return s
}

// DefaultResolver builds the production identity chain: test override,
// verified access assertion (or the trusted header when no team domain
// is configured), signed dev cookie, configured fallback.
func DefaultResolver(ctx context.Context, cfg config.AuthConfig) identity.Resolver {
	chain := identity.Chain{identity.OverrideResolver{}}
	if domain := cfg.GetAccessTeamDomain(); domain != "" {
		chain = append(chain, identity.NewAccessJWTResolver(ctx, domain, cfg.GetAccessAudience()))
	} else {
		chain = append(chain, identity.HeaderResolver{Header: identity.AccessEmailHeader})
	}
	if secret := cfg.GetDevSessionSecret(); secret != "" {
		chain = append(chain, identity.DevCookieResolver{Secret: []byte(secret)})
	}
	chain = append(chain, identity.StaticResolver{Identity: cfg.GetDevUserEmail()})
	return chain
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Printf("[%-19s] %s\n", displayMethod, path)
}
