package converter

import (
	"context"
	"sync"
)

// latch is a one-shot completion signal carrying the outcome of the work it
// guards. Resolving twice is a no-op: the first outcome wins, which gives the
// package unit its at-most-once load and write semantics.
type latch struct {
	once sync.Once
	done chan struct{}
	err  error
}

func newLatch() *latch {
	return &latch{done: make(chan struct{})}
}

// resolve records the outcome and releases all waiters.
func (l *latch) resolve(err error) {
	l.once.Do(func() {
		l.err = err
		close(l.done)
	})
}

// wait blocks until the latch resolves or the context is done.
func (l *latch) wait(ctx context.Context) error {
	select {
	case <-l.done:
		return l.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// resolved reports whether the latch has already fired.
func (l *latch) resolved() bool {
	select {
	case <-l.done:
		return true
	default:
		return false
	}
}
