package kvfake

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/anschmieg/quartier/kv"
)

var _ kv.Store = (*FakeStore)(nil)

// FakeStore is an in-memory kv.Store with TTL support and an injectable
// clock, for tests. FailNext can be armed to simulate store outages.
type FakeStore struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
	failErr error
}

type entry struct {
	value     []byte
	expiresAt time.Time // zero means no expiry
}

func NewFakeStore() *FakeStore {
	return &FakeStore{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// SetNow replaces the clock used for TTL checks.
func (f *FakeStore) SetNow(now func() time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = now
}

// FailWith makes every subsequent operation return err until called
// again with nil.
func (f *FakeStore) FailWith(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failErr = err
}

func (f *FakeStore) Get(ctx context.Context, key string) ([]byte, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.failErr != nil {
		return nil, f.failErr
	}
	e, ok := f.entries[key]
	if !ok || f.expired(e) {
		return nil, kv.ErrNotFound
	}
	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, nil
}

func (f *FakeStore) GetJSON(ctx context.Context, key string, out any) error {
	data, err := f.Get(ctx, key)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func (f *FakeStore) Put(ctx context.Context, key string, value []byte, opts ...kv.PutOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failErr != nil {
		return f.failErr
	}
	o := kv.ApplyPutOptions(opts)
	e := entry{value: append([]byte(nil), value...)}
	if o.TTL > 0 {
		e.expiresAt = f.now().Add(o.TTL)
	}
	f.entries[key] = e
	return nil
}

func (f *FakeStore) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failErr != nil {
		return f.failErr
	}
	delete(f.entries, key)
	return nil
}

func (f *FakeStore) List(ctx context.Context, prefix string) ([]string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.failErr != nil {
		return nil, f.failErr
	}
	keys := make([]string, 0)
	for k, e := range f.entries {
		if strings.HasPrefix(k, prefix) && !f.expired(e) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

// Len reports the number of live entries. For test assertions.
func (f *FakeStore) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()

	n := 0
	for _, e := range f.entries {
		if !f.expired(e) {
			n++
		}
	}
	return n
}

func (f *FakeStore) expired(e entry) bool {
	return !e.expiresAt.IsZero() && f.now().After(e.expiresAt)
}
