package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/anschmieg/quartier/identity"
	"github.com/anschmieg/quartier/internal/apperrors"
)

const devCookieTTL = 30 * 24 * time.Hour

type userResponse struct {
	User userInfo `json:"user"`
}

type userInfo struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (s *Server) authMeHandler(w http.ResponseWriter, r *http.Request) {
	email := identity.Identity(s.resolver, r)
	if email == "" {
		s.respondError(w, r, apperrors.AuthRequired("not authenticated"))
		return
	}

	name, _, _ := strings.Cut(email, "@")
	s.respondJSON(w, http.StatusOK, userResponse{User: userInfo{Email: email, Name: name}})
}

// devLoginHandler signs the caller in as the configured dev user. Only
// active when a dev token is configured, never in production.
func (s *Server) devLoginHandler(w http.ResponseWriter, r *http.Request) {
	devToken := s.config.GetDevGitHubToken()
	if devToken == "" {
		s.respondError(w, r, apperrors.Validation("dev login is not configured"))
		return
	}

	maxAge := int(devCookieTTL.Seconds())
	http.SetCookie(w, &http.Cookie{
		Name:     "gh_token",
		Value:    devToken,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
	})

	if secret := s.config.GetDevSessionSecret(); secret != "" {
		signed, err := identity.MintDevToken([]byte(secret), s.config.GetDevUserEmail(), devCookieTTL)
		if err != nil {
			s.respondError(w, r, apperrors.Internal(err, "dev login failed"))
			return
		}
		http.SetCookie(w, &http.Cookie{
			Name:     identity.DevCookieName,
			Value:    signed,
			Path:     "/",
			MaxAge:   maxAge,
			HttpOnly: true,
		})
	}

	http.Redirect(w, r, "/app", http.StatusFound)
}

func (s *Server) healthzHandler(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
