// Copyright The Meetwise Authors and each contributor to Meetwise.
// SPDX-License-Identifier: MIT

package concurrent

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyedRunner_SerializesSameKey(t *testing.T) {
	runner := NewKeyedRunner()

	var inFlight int64
	var maxInFlight int64
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := runner.Do("meeting-1", func() error {
				current := atomic.AddInt64(&inFlight, 1)
				for {
					observed := atomic.LoadInt64(&maxInFlight)
					if current <= observed || atomic.CompareAndSwapInt64(&maxInFlight, observed, current) {
						break
					}
				}
				atomic.AddInt64(&inFlight, -1)
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), atomic.LoadInt64(&maxInFlight))
}

func TestKeyedRunner_DistinctKeysRunConcurrently(t *testing.T) {
	runner := NewKeyedRunner()

	firstRunning := make(chan struct{})
	releaseFirst := make(chan struct{})
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = runner.Do("meeting-1", func() error {
			close(firstRunning)
			<-releaseFirst
			return nil
		})
	}()

	<-firstRunning

	// A different key must not block on the held lock.
	err := runner.Do("meeting-2", func() error { return nil })
	assert.NoError(t, err)

	close(releaseFirst)
	wg.Wait()
}

func TestKeyedRunner_ReturnsError(t *testing.T) {
	runner := NewKeyedRunner()
	boom := errors.New("boom")

	err := runner.Do("meeting-1", func() error { return boom })
	assert.ErrorIs(t, err, boom)

	// The lock is released after a failed run.
	err = runner.Do("meeting-1", func() error { return nil })
	assert.NoError(t, err)
}
