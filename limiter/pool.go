// Package limiter provides counting permit pools and the per-host limiter
// built from them.
package limiter

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Pool is a counting permit pool. Acquire blocks while all permits are held.
type Pool struct {
	size int64
	sem  *semaphore.Weighted
}

func NewPool(size int) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{
		size: int64(size),
		sem:  semaphore.NewWeighted(int64(size)),
	}
}

// Acquire blocks until a permit is free or ctx is done.
func (p *Pool) Acquire(ctx context.Context) error {
	return p.sem.Acquire(ctx, 1)
}

// Release returns a permit. It panics if no permit is held.
func (p *Pool) Release() {
	p.sem.Release(1)
}

func (p *Pool) Size() int {
	return int(p.size)
}
