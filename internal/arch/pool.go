package arch

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// DefaultWorkers is the size of the shared io pool.
const DefaultWorkers = 4

// Pool bounds how many background calls run at once.
type Pool struct {
	sem *semaphore.Weighted
}

// NewPool creates a pool of n workers.
func NewPool(n int) *Pool {
	if n < 1 {
		n = 1
	}
	return &Pool{sem: semaphore.NewWeighted(int64(n))}
}

// IO is the pool shared by view-models that don't bring their own.
var IO = NewPool(DefaultWorkers)

func (p *Pool) acquire(ctx context.Context) error {
	return p.sem.Acquire(ctx, 1)
}

func (p *Pool) release() {
	p.sem.Release(1)
}
