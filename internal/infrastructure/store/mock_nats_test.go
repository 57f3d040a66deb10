// Copyright The Meetwise Authors and each contributor to Meetwise.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go/jetstream"
)

// mockKeyValueEntry implements jetstream.KeyValueEntry for tests.
type mockKeyValueEntry struct {
	key      string
	value    []byte
	revision uint64
}

func (e *mockKeyValueEntry) Bucket() string                  { return "test" }
func (e *mockKeyValueEntry) Key() string                     { return e.key }
func (e *mockKeyValueEntry) Value() []byte                   { return e.value }
func (e *mockKeyValueEntry) Revision() uint64                { return e.revision }
func (e *mockKeyValueEntry) Created() time.Time              { return time.Time{} }
func (e *mockKeyValueEntry) Delta() uint64                   { return 0 }
func (e *mockKeyValueEntry) Operation() jetstream.KeyValueOp { return jetstream.KeyValuePut }

// mockKeyLister implements jetstream.KeyLister over a fixed key set.
type mockKeyLister struct {
	keys []string
}

func (l *mockKeyLister) Keys() <-chan string {
	ch := make(chan string, len(l.keys))
	for _, k := range l.keys {
		ch <- k
	}
	close(ch)
	return ch
}

func (l *mockKeyLister) Stop() error { return nil }

// mockNatsKeyValue is an in-memory INatsKeyValue used by repository tests.
type mockNatsKeyValue struct {
	mu      sync.Mutex
	entries map[string]*mockKeyValueEntry

	getErr    error
	putErr    error
	updateErr error
	deleteErr error
	listErr   error
}

func newMockNatsKeyValue() *mockNatsKeyValue {
	return &mockNatsKeyValue{entries: map[string]*mockKeyValueEntry{}}
}

func (m *mockNatsKeyValue) Get(_ context.Context, key string) (jetstream.KeyValueEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	entry, ok := m.entries[key]
	if !ok {
		return nil, jetstream.ErrKeyNotFound
	}
	return entry, nil
}

func (m *mockNatsKeyValue) Put(_ context.Context, key string, value []byte) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putErr != nil {
		return 0, m.putErr
	}
	revision := uint64(1)
	if existing, ok := m.entries[key]; ok {
		revision = existing.revision + 1
	}
	m.entries[key] = &mockKeyValueEntry{key: key, value: value, revision: revision}
	return revision, nil
}

func (m *mockNatsKeyValue) Update(_ context.Context, key string, value []byte, revision uint64) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return 0, m.updateErr
	}
	existing, ok := m.entries[key]
	if !ok {
		return 0, jetstream.ErrKeyNotFound
	}
	if existing.revision != revision {
		return 0, fmt.Errorf("nats: wrong last sequence: %d", existing.revision)
	}
	m.entries[key] = &mockKeyValueEntry{key: key, value: value, revision: revision + 1}
	return revision + 1, nil
}

func (m *mockNatsKeyValue) Delete(_ context.Context, key string, _ ...jetstream.KVDeleteOpt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.entries[key]; !ok {
		return jetstream.ErrKeyNotFound
	}
	delete(m.entries, key)
	return nil
}

func (m *mockNatsKeyValue) ListKeys(_ context.Context, _ ...jetstream.WatchOpt) (jetstream.KeyLister, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	keys := make([]string, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	return &mockKeyLister{keys: keys}, nil
}
