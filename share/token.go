// Package share implements mint, validate, join, revoke and list for
// the share tokens that grant guests entry to a session.
package share

import (
	"crypto/rand"
	"math/big"
	"strings"

	"github.com/anschmieg/quartier/internal/apperrors"
)

// Permission is the access level a share token grants to joiners.
type Permission string

const (
	PermissionEdit Permission = "edit"
	PermissionView Permission = "view"
)

// ParsePermission validates a requested permission, defaulting empty
// input to edit.
func ParsePermission(raw string) (Permission, error) {
	switch Permission(raw) {
	case "":
		return PermissionEdit, nil
	case PermissionEdit:
		return PermissionEdit, nil
	case PermissionView:
		return PermissionView, nil
	default:
		return "", apperrors.Validation("invalid permission: %s", raw)
	}
}

// ShareToken is a revocable, optionally expiring capability to join one
// session. The back-reference to the session is lookup-only: the token
// record can outlive the session, so consumers must re-validate the
// session on every use.
type ShareToken struct {
	Token      string     `json:"token"`
	SessionID  string     `json:"sessionId"`
	Permission Permission `json:"permission"`
	ExpiresAt  int64      `json:"expiresAt,omitempty"` // unix milliseconds, 0 = never
	CreatedBy  string     `json:"createdBy"`
	Created    int64      `json:"created"`
}

// NewToken draws three words from the embedded list with crypto/rand,
// giving a link that is speakable but still infeasible to guess when
// combined with collision checking and rate limiting.
func NewToken() string {
	parts := make([]string, 3)
	max := big.NewInt(int64(len(wordList)))
	for i := range parts {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the platform's entropy
			// source is broken; nothing sensible to do but stop.
			panic("share: crypto/rand unavailable: " + err.Error())
		}
		parts[i] = wordList[n.Int64()]
	}
	return strings.Join(parts, "-")
}
