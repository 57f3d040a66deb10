// Copyright The Meetwise Authors and each contributor to Meetwise.
// SPDX-License-Identifier: MIT

package concurrent

import (
	"sync"
)

// KeyedRunner serializes functions that share a key while letting distinct
// keys run concurrently. Used to guarantee that no two pipeline executions
// for the same meeting run at the same time.
type KeyedRunner struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

// NewKeyedRunner creates a new keyed runner.
func NewKeyedRunner() *KeyedRunner {
	return &KeyedRunner{
		locks: make(map[string]*keyLock),
	}
}

// Do runs fn while holding the lock for key. Callers with the same key block
// until the current holder finishes; callers with different keys proceed
// immediately.
func (r *KeyedRunner) Do(key string, fn func() error) error {
	l := r.acquire(key)
	l.mu.Lock()
	defer func() {
		l.mu.Unlock()
		r.release(key)
	}()

	return fn()
}

func (r *KeyedRunner) acquire(key string) *keyLock {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.locks[key]
	if !ok {
		l = &keyLock{}
		r.locks[key] = l
	}
	l.refs++
	return l
}

func (r *KeyedRunner) release(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.locks[key]
	if !ok {
		return
	}
	l.refs--
	if l.refs <= 0 {
		delete(r.locks, key)
	}
}
