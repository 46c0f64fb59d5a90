package server

import (
	"net/http"

	"github.com/anschmieg/quartier/identity"
	"github.com/anschmieg/quartier/internal/apperrors"
	"github.com/anschmieg/quartier/session"
	"github.com/anschmieg/quartier/share"
)

type createShareRequest struct {
	Permission string `json:"permission,omitempty"`
	ExpiresIn  int    `json:"expiresIn,omitempty"` // hours
}

type createShareResponse struct {
	ShareToken *share.ShareToken `json:"shareToken"`
	ShareURL   string            `json:"shareUrl"`
}

type shareListResponse struct {
	Tokens []*share.ShareToken `json:"tokens"`
}

type resolveShareResponse struct {
	Session    session.Summary  `json:"session"`
	Permission share.Permission `json:"permission"`
}

type joinShareResponse struct {
	Success    bool             `json:"success"`
	Session    session.Summary  `json:"session"`
	Permission share.Permission `json:"permission"`
}

func (s *Server) createShareHandler(w http.ResponseWriter, r *http.Request) {
	email, ok := s.caller(w, r)
	if !ok {
		return
	}

	var req createShareRequest
	if err := decodeJSONBody(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	permission, err := share.ParsePermission(req.Permission)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	token, err := s.shares.Create(r.Context(), r.PathValue("id"), email, permission, req.ExpiresIn)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, createShareResponse{
		ShareToken: token,
		ShareURL:   s.config.GetBaseURL() + "/s/" + token.Token,
	})
}

func (s *Server) listSharesHandler(w http.ResponseWriter, r *http.Request) {
	email, ok := s.caller(w, r)
	if !ok {
		return
	}

	tokens, err := s.shares.List(r.Context(), r.PathValue("id"), email)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, shareListResponse{Tokens: tokens})
}

func (s *Server) revokeShareHandler(w http.ResponseWriter, r *http.Request) {
	email, ok := s.caller(w, r)
	if !ok {
		return
	}
	token := r.URL.Query().Get("token")
	if token == "" {
		s.respondError(w, r, apperrors.Validation("token parameter required"))
		return
	}

	if err := s.shares.Revoke(r.Context(), r.PathValue("id"), token, email); err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, successResponse{Success: true})
}

// resolveShareHandler previews the session behind a share link. It is
// deliberately unauthenticated so recipients can see what they were
// invited to before signing in; the owner identity stays masked.
func (s *Server) resolveShareHandler(w http.ResponseWriter, r *http.Request) {
	res, err := s.shares.ValidateAndResolve(r.Context(), r.PathValue("token"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, resolveShareResponse{
		Session:    res.Session.Summarize(),
		Permission: res.Permission,
	})
}

func (s *Server) joinShareHandler(w http.ResponseWriter, r *http.Request) {
	email := identity.Identity(s.resolver, r)

	res, err := s.shares.Join(r.Context(), r.PathValue("token"), email)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, joinShareResponse{
		Success:    true,
		Session:    res.Session,
		Permission: res.Permission,
	})
}
