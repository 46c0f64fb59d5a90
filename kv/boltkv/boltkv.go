// Package boltkv persists kv records in a single-file bbolt database.
// TTLs are stored alongside each value and enforced lazily on read; a
// periodic sweep reclaims space for records that are never read again.
package boltkv

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"

	"github.com/anschmieg/quartier/kv"
)

var recordBucket = []byte("records")

var _ kv.Store = (*Store)(nil)

// Store is a durable kv.Store backed by bbolt.
type Store struct {
	db  *bolt.DB
	now func() time.Time
}

type record struct {
	Value     []byte `json:"v"`
	ExpiresAt int64  `json:"exp,omitempty"` // unix seconds, 0 = no expiry
}

type Option func(*Store)

// WithNowFunc replaces the clock used for expiry checks. For tests.
func WithNowFunc(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// Open opens (or creates) the database file at path.
func Open(path string, opts ...Option) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrap(err, "[boltkv.Open] open database")
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(recordBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "[boltkv.Open] create bucket")
	}

	s := &Store{db: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	expired := false

	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(recordBucket).Get([]byte(key))
		if data == nil {
			return kv.ErrNotFound
		}
		var rec record
		if err := json.Unmarshal(data, &rec); err != nil {
			return errors.Wrap(err, "[boltkv.Get] decode record")
		}
		if s.isExpired(rec) {
			expired = true
			return kv.ErrNotFound
		}
		value = append([]byte(nil), rec.Value...)
		return nil
	})

	if expired {
		// Reap outside the read transaction; best effort.
		_ = s.Delete(ctx, key)
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (s *Store) GetJSON(ctx context.Context, key string, out any) error {
	data, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func (s *Store) Put(ctx context.Context, key string, value []byte, opts ...kv.PutOption) error {
	o := kv.ApplyPutOptions(opts)
	rec := record{Value: value}
	if o.TTL > 0 {
		rec.ExpiresAt = s.now().Add(o.TTL).Unix()
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return errors.Wrap(err, "[boltkv.Put] encode record")
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(recordBucket).Put([]byte(key), data)
	})
}

func (s *Store) Delete(ctx context.Context, key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(recordBucket).Delete([]byte(key))
	})
}

func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	keys := make([]string, 0)
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(recordBucket).Cursor()
		p := []byte(prefix)
		for k, data := c.Seek(p); k != nil && bytes.HasPrefix(k, p); k, data = c.Next() {
			var rec record
			if err := json.Unmarshal(data, &rec); err != nil {
				return errors.Wrap(err, "[boltkv.List] decode record")
			}
			if s.isExpired(rec) {
				continue
			}
			keys = append(keys, string(k))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}

// Sweep deletes every expired record. Callers typically run this on a
// timer from main.
func (s *Store) Sweep(ctx context.Context) (int, error) {
	removed := 0
	err := s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(recordBucket)
		c := bucket.Cursor()
		for k, data := c.First(); k != nil; k, data = c.Next() {
			var rec record
			if err := json.Unmarshal(data, &rec); err != nil {
				continue
			}
			if s.isExpired(rec) {
				if err := c.Delete(); err != nil {
					return err
				}
				removed++
			}
		}
		return nil
	})
	if err != nil {
		return removed, errors.Wrap(err, "[boltkv.Sweep]")
	}
	return removed, nil
}

func (s *Store) isExpired(rec record) bool {
	return rec.ExpiresAt > 0 && s.now().Unix() >= rec.ExpiresAt
}
