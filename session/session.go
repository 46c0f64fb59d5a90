// Package session implements the registry of collaborative sessions: the
// capability records that scope what guests may see, plus the owner and
// member indexes used for listing.
package session

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Session is a capability grant: the owner shares the listed paths with
// every member. The path set is the maximum-permitted scope and is
// replaced wholesale, never patched.
type Session struct {
	ID      string   `json:"id"`
	Owner   string   `json:"owner"`
	Paths   []string `json:"paths"`
	Members []string `json:"members"`
	Created int64    `json:"created"` // unix milliseconds
	Name    string   `json:"name,omitempty"`
}

// Summary is the member-facing view of a session: the owner's email is
// masked and the member list is reduced to a count.
type Summary struct {
	ID          string   `json:"id"`
	Name        string   `json:"name,omitempty"`
	Paths       []string `json:"paths"`
	Owner       string   `json:"owner,omitempty"`
	MemberCount int      `json:"memberCount"`
	Created     int64    `json:"created,omitempty"`
}

// HasMember reports whether identity is the owner or a listed member.
func (s *Session) HasMember(identity string) bool {
	if identity == s.Owner {
		return true
	}
	for _, m := range s.Members {
		if m == identity {
			return true
		}
	}
	return false
}

// Summarize builds the masked member-facing view.
func (s *Session) Summarize() Summary {
	return Summary{
		ID:          s.ID,
		Name:        s.Name,
		Paths:       s.Paths,
		Owner:       MaskIdentity(s.Owner),
		MemberCount: len(s.Members),
		Created:     s.Created,
	}
}

// MaskIdentity hides the domain of an email, keeping the local part:
// "ada@example.org" becomes "ada@***".
func MaskIdentity(identity string) string {
	local, _, found := strings.Cut(identity, "@")
	if !found {
		return identity
	}
	return local + "@***"
}

// NewID generates a fresh session id: "session_" followed by the first
// twelve hex characters of a dashless UUID.
func NewID() string {
	return "session_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
}

func nowMillis(now func() time.Time) int64 {
	return now().UnixMilli()
}
