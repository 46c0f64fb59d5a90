package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/anschmieg/quartier/guard"
	"github.com/anschmieg/quartier/internal/apperrors"
)

const contentTypeJSON = "application/json; charset=utf-8"

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// respondError maps a service error onto its HTTP status. Internal
// causes are logged, never leaked to the response body.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.HTTPStatus(err)
	message := err.Error()

	switch apperrors.KindOf(err) {
	case apperrors.KindInternal:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		message = "internal error"
	case apperrors.KindPermission, apperrors.KindAuthRequired:
		s.metrics.ObserveAuthzDenied(apperrors.CodeOf(err))
	}

	w.Header().Set("Content-Type", contentTypeJSON)
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Error: message, Code: apperrors.CodeOf(err)})
}

func setRateHeaders(w http.ResponseWriter, res guard.Result) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt, 10))
}

// checkLimit runs one guard scope and writes the 429 when exhausted.
// Returns false when the request must stop.
func (s *Server) checkLimit(w http.ResponseWriter, r *http.Request, scope guard.Scope, identity string) bool {
	if !s.config.GetGuardEnabled() {
		return true
	}
	res := s.guard.Check(r.Context(), scope, identity)
	setRateHeaders(w, res)
	if !res.Allowed {
		s.metrics.ObserveRateLimited(scope.Name)
		w.Header().Set("Retry-After", strconv.FormatInt(int64(scope.Window.Seconds()), 10))
		s.respondError(w, r, apperrors.RateLimit("rate limit exceeded, please try again later"))
		return false
	}
	return true
}

func decodeJSONBody(r *http.Request, out any) error {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		return apperrors.Validation("invalid request body")
	}
	return nil
}
