package app

import (
	"context"
	"slices"
	"time"
)

type queued struct {
	at time.Time
	fn func()
}

// QueueScheduler holds deferred actions until Drain runs them. It is the
// event loop of a one-shot command: actions run on the caller's goroutine.
type QueueScheduler struct {
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
	queue []queued
}

// NewQueueScheduler creates a scheduler that waits out each action's delay
// when drained.
func NewQueueScheduler() *QueueScheduler {
	return &QueueScheduler{now: time.Now, sleep: sleepContext}
}

// After queues fn to run delay from now.
func (q *QueueScheduler) After(delay time.Duration, fn func()) {
	q.queue = append(q.queue, queued{at: q.now().Add(delay), fn: fn})
}

// Pending returns the number of queued actions.
func (q *QueueScheduler) Pending() int {
	return len(q.queue)
}

// Drain runs every queued action in deadline order, including actions
// queued while draining. It stops early only when ctx is done.
func (q *QueueScheduler) Drain(ctx context.Context) error {
	for len(q.queue) > 0 {
		slices.SortStableFunc(q.queue, func(a, b queued) int {
			return a.at.Compare(b.at)
		})
		next := q.queue[0]
		q.queue = q.queue[1:]

		if wait := next.at.Sub(q.now()); wait > 0 {
			if err := q.sleep(ctx, wait); err != nil {
				return err
			}
		}
		next.fn()
	}
	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
