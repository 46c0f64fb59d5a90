package server

import (
	"net/http"

	"github.com/anschmieg/quartier/guard"
	"github.com/anschmieg/quartier/identity"
	"github.com/anschmieg/quartier/internal/apperrors"
	"github.com/anschmieg/quartier/session"
)

type createSessionRequest struct {
	Paths []string `json:"paths"`
	Name  string   `json:"name,omitempty"`
}

type sessionResponse struct {
	Session *session.Session `json:"session"`
}

type sessionListResponse struct {
	Sessions []*session.Session `json:"sessions"`
}

type summaryListResponse struct {
	Sessions []session.Summary `json:"sessions"`
}

type successResponse struct {
	Success bool `json:"success"`
}

// caller resolves the request identity and rejects anonymous callers.
func (s *Server) caller(w http.ResponseWriter, r *http.Request) (string, bool) {
	email := identity.Identity(s.resolver, r)
	if email == "" {
		s.respondError(w, r, apperrors.AuthRequired("unauthorized"))
		return "", false
	}
	return email, true
}

func (s *Server) createSessionHandler(w http.ResponseWriter, r *http.Request) {
	email, ok := s.caller(w, r)
	if !ok {
		return
	}
	if !s.checkLimit(w, r, guard.ScopeSessionCreate, email) {
		return
	}

	var req createSessionRequest
	if err := decodeJSONBody(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	created, err := s.sessions.Create(r.Context(), email, req.Paths, req.Name)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, sessionResponse{Session: created})
}

func (s *Server) listSessionsHandler(w http.ResponseWriter, r *http.Request) {
	email, ok := s.caller(w, r)
	if !ok {
		return
	}
	if !s.checkLimit(w, r, guard.ScopeSessionList, email) {
		return
	}

	owned, err := s.sessions.ListOwned(r.Context(), email)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, sessionListResponse{Sessions: owned})
}

func (s *Server) listSharedSessionsHandler(w http.ResponseWriter, r *http.Request) {
	email, ok := s.caller(w, r)
	if !ok {
		return
	}
	if !s.checkLimit(w, r, guard.ScopeSessionList, email) {
		return
	}

	shared, err := s.sessions.ListShared(r.Context(), email)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, summaryListResponse{Sessions: shared})
}

func (s *Server) getSessionHandler(w http.ResponseWriter, r *http.Request) {
	email, ok := s.caller(w, r)
	if !ok {
		return
	}

	sess, err := s.sessions.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if !sess.HasMember(email) {
		s.respondError(w, r, apperrors.Permission("forbidden"))
		return
	}
	s.respondJSON(w, http.StatusOK, sessionResponse{Session: sess})
}

func (s *Server) deleteSessionHandler(w http.ResponseWriter, r *http.Request) {
	email, ok := s.caller(w, r)
	if !ok {
		return
	}

	if err := s.sessions.Delete(r.Context(), r.PathValue("id"), email); err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, successResponse{Success: true})
}
