package web

// limiter.go caps how many preview runs execute at once.
//
// Each run holds the whole table in memory, so parallel uploads are bounded
// by a semaphore. A request that cannot get a slot within maxWait fails with
// ErrBusy. Drain lets shutdown wait for runs in flight.

import (
	"context"
	"errors"
	"sync/atomic"
	"time"
)

// ErrBusy is returned when every run slot stays occupied for maxWait.
var ErrBusy = errors.New("too many concurrent runs")

// runLimiter is a counting semaphore for preview runs.
type runLimiter struct {
	slots   chan struct{}
	maxWait time.Duration
	active  atomic.Int64
}

func newRunLimiter(maxConcurrent int, maxWait time.Duration) *runLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &runLimiter{
		slots:   make(chan struct{}, maxConcurrent),
		maxWait: maxWait,
	}
}

// acquire takes a slot. The caller must release it exactly once.
func (l *runLimiter) acquire(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, l.maxWait)
	defer cancel()

	select {
	case l.slots <- struct{}{}:
		l.active.Add(1)
		return nil
	case <-waitCtx.Done():
		if err := ctx.Err(); err != nil {
			return err
		}
		return ErrBusy
	}
}

func (l *runLimiter) release() {
	l.active.Add(-1)
	<-l.slots
}

// inFlight returns the number of runs holding a slot.
func (l *runLimiter) inFlight() int {
	return int(l.active.Load())
}

// drain blocks until no run holds a slot or ctx ends.
func (l *runLimiter) drain(ctx context.Context) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for l.inFlight() > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}
