// Copyright Tellus Operations and each contributor.
// SPDX-License-Identifier: MIT

package concurrent

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// WorkerPool represents a pool of workers that can process jobs concurrently
type WorkerPool struct {
	workerCount int
}

// NewWorkerPool creates a new worker pool with the specified number of workers
func NewWorkerPool(workerCount int) *WorkerPool {
	if workerCount <= 0 {
		workerCount = 1
	}
	return &WorkerPool{
		workerCount: workerCount,
	}
}

// RunAll executes all functions without cancellation on error.
// Returns a slice containing only the non-nil errors that occurred.
func (wp *WorkerPool) RunAll(ctx context.Context, functions ...func() error) []error {
	if len(functions) == 0 {
		return nil
	}

	var (
		mu     sync.Mutex
		errors []error
	)

	g := new(errgroup.Group)
	g.SetLimit(wp.workerCount)

	for _, fn := range functions {
		fn := fn
		g.Go(func() error {
			var err error
			select {
			case <-ctx.Done():
				err = ctx.Err()
			default:
				err = fn()
			}
			if err != nil {
				mu.Lock()
				errors = append(errors, err)
				mu.Unlock()
			}
			// Never propagate to the errgroup so every function runs.
			return nil
		})
	}

	_ = g.Wait()

	return errors
}
