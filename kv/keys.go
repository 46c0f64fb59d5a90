package kv

import "fmt"

// Key builders for the documented record prefixes. Every package that
// touches the store goes through these so the namespace stays in one
// place.

func SessionKey(id string) string {
	return "session:" + id
}

func SessionTokensKey(id string) string {
	return "session:" + id + ":tokens"
}

func ShareTokenKey(token string) string {
	return "share:" + token
}

func OwnerIndexKey(identity string) string {
	return "sessions:" + identity
}

func MemberIndexKey(identity string) string {
	return "member:" + identity
}

func RateLimitKey(scope, identity string, window int64) string {
	return fmt.Sprintf("ratelimit:%s:%s:%d", scope, identity, window)
}
