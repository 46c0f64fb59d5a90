package identity

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DevCookieName carries the signed identity minted by the dev-login
// endpoint for local development without an access proxy.
const DevCookieName = "quartier_identity"

// DevCookieResolver verifies the HS256-signed identity cookie.
type DevCookieResolver struct {
	Secret []byte
}

func (d DevCookieResolver) Resolve(r *http.Request) (string, bool) {
	if len(d.Secret) == 0 {
		return "", false
	}
	cookie, err := r.Cookie(DevCookieName)
	if err != nil {
		return "", false
	}

	claims := jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(cookie.Value, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return d.Secret, nil
	})
	if err != nil || !token.Valid || claims.Subject == "" {
		return "", false
	}
	return claims.Subject, true
}

// MintDevToken signs an identity token for the dev cookie.
func MintDevToken(secret []byte, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   email,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}
