package server

import (
	"net/http"
	"strings"

	"github.com/anschmieg/quartier/access"
	"github.com/anschmieg/quartier/gitcontent"
	"github.com/anschmieg/quartier/guard"
	"github.com/anschmieg/quartier/identity"
	"github.com/anschmieg/quartier/internal/apperrors"
)

// contentHandler proxies repository reads through the authorization
// engine. Guests see listings filtered down to their session's grants.
func (s *Server) contentHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	owner := q.Get("owner")
	repo := q.Get("repo")
	path := q.Get("path")

	if owner == "" || repo == "" {
		s.respondError(w, r, apperrors.Validation("missing owner or repo parameter"))
		return
	}

	credential := s.extractCredential(r)
	email := identity.Identity(s.resolver, r)

	limitKey := email
	if credential != "" {
		limitKey = guard.TokenDigest(credential)
	}
	if !s.checkLimit(w, r, guard.ScopeContent, limitKey) {
		return
	}

	decision, err := s.engine.Authorize(r.Context(), access.Request{
		Owner:         owner,
		Repo:          repo,
		Path:          path,
		SessionID:     q.Get("session"),
		HasCredential: credential != "",
		Identity:      email,
	})
	if err != nil {
		// All session denials collapse to one message so callers cannot
		// probe which sessions exist or who belongs to them.
		if apperrors.IsPermission(err) {
			err = apperrors.Permission("access denied")
		}
		s.respondError(w, r, err)
		return
	}

	result, err := s.gateway.Fetch(r.Context(), credential, owner, repo, path)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if result.IsDir {
		entries := result.Entries
		if decision.Level == access.LevelGuest {
			entries = access.FilterListing(decision.Patterns, owner, repo, path, entries, func(e gitcontent.Entry) string {
				return e.Name
			})
		}
		s.respondJSON(w, http.StatusOK, entries)
		return
	}
	s.respondJSON(w, http.StatusOK, result.File)
}

// extractCredential finds the caller's personal token: the OAuth
// cookie, a bearer header, or the configured dev token.
func (s *Server) extractCredential(r *http.Request) string {
	if cookie, err := r.Cookie("gh_token"); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if auth := r.Header.Get("Authorization"); auth != "" {
		if token, ok := strings.CutPrefix(auth, "Bearer "); ok && token != "" {
			return token
		}
	}
	return s.config.GetDevGitHubToken()
}
