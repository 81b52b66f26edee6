package analyzer

import (
	"context"
	"sync"
	"time"
)

// spacingLimiter serializes calls with a minimum gap between their start
// times. Each caller reserves the next slot under the lock, then sleeps
// outside it, so waiting callers line up in reservation order.
type spacingLimiter struct {
	spacing time.Duration

	mu   sync.Mutex
	next time.Time
}

func newSpacingLimiter(spacing time.Duration) *spacingLimiter {
	return &spacingLimiter{spacing: spacing}
}

func (l *spacingLimiter) wait(ctx context.Context) error {
	l.mu.Lock()
	now := time.Now()
	at := l.next
	if at.Before(now) {
		at = now
	}
	l.next = at.Add(l.spacing)
	l.mu.Unlock()

	d := time.Until(at)
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return ctx.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}
