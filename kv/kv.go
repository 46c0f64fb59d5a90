// Package kv defines the key-value store contract that all session,
// share-token, index and rate-window records are persisted through.
// Records are JSON documents under documented key prefixes:
//
//	session:<id>           Session record
//	share:<token>          ShareToken record
//	session:<id>:tokens    token ids for a session
//	sessions:<owner>       session ids owned by an identity
//	member:<identity>      session ids an identity is a member of
//	ratelimit:<scope>:<identity>:<window>  rate counter
package kv

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	pkgerrors "github.com/pkg/errors"
)

// ErrNotFound is returned by Get and GetJSON when no record exists
// under the key (or its TTL has elapsed).
var ErrNotFound = errors.New("kv: key not found")

// Store is the minimal contract consumed by the services. Implementations
// must treat an expired record exactly like an absent one.
type Store interface {
	// Get returns the raw value stored under key.
	Get(ctx context.Context, key string) ([]byte, error)

	// GetJSON unmarshals the value stored under key into out.
	GetJSON(ctx context.Context, key string, out any) error

	// Put stores value under key. A zero TTL means no expiry beyond
	// whatever the backend enforces.
	Put(ctx context.Context, key string, value []byte, opts ...PutOption) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// List returns all keys with the given prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}

// PutOptions holds optional write parameters.
type PutOptions struct {
	TTL time.Duration
}

type PutOption func(*PutOptions)

// WithTTL makes the record self-expire after d.
func WithTTL(d time.Duration) PutOption {
	return func(o *PutOptions) {
		o.TTL = d
	}
}

// ApplyPutOptions folds opts into a PutOptions value. For implementations.
func ApplyPutOptions(opts []PutOption) PutOptions {
	var o PutOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// PutJSON marshals v and stores it under key.
func PutJSON(ctx context.Context, s Store, key string, v any, opts ...PutOption) error {
	data, err := json.Marshal(v)
	if err != nil {
		return pkgerrors.Wrap(err, "[kv.PutJSON] marshal")
	}
	return s.Put(ctx, key, data, opts...)
}

// GetStringList reads a JSON string array under key, returning an empty
// slice when the key is absent. Index records use this shape.
func GetStringList(ctx context.Context, s Store, key string) ([]string, error) {
	var ids []string
	if err := s.GetJSON(ctx, key, &ids); err != nil {
		if errors.Is(err, ErrNotFound) {
			return []string{}, nil
		}
		return nil, err
	}
	return ids, nil
}
