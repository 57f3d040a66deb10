// Copyright The Meetwise Authors and each contributor to Meetwise.
// SPDX-License-Identifier: MIT

package concurrent

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWorkerPool_Run(t *testing.T) {
	pool := NewWorkerPool(4)

	var counter int64
	functions := make([]func() error, 10)
	for i := range functions {
		functions[i] = func() error {
			atomic.AddInt64(&counter, 1)
			return nil
		}
	}

	err := pool.Run(context.Background(), functions...)
	assert.NoError(t, err)
	assert.Equal(t, int64(10), atomic.LoadInt64(&counter))
}

func TestWorkerPool_Run_Error(t *testing.T) {
	pool := NewWorkerPool(2)
	boom := errors.New("boom")

	err := pool.Run(context.Background(),
		func() error { return nil },
		func() error { return boom },
	)
	assert.ErrorIs(t, err, boom)
}

func TestWorkerPool_Run_NoFunctions(t *testing.T) {
	pool := NewWorkerPool(2)
	assert.NoError(t, pool.Run(context.Background()))
}

func TestNewWorkerPool_ClampsWorkerCount(t *testing.T) {
	pool := NewWorkerPool(0)
	assert.Equal(t, 1, pool.workerCount)

	pool = NewWorkerPool(-5)
	assert.Equal(t, 1, pool.workerCount)
}
