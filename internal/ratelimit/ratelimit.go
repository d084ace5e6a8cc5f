// Package ratelimit enforces per-provider request budgets with a
// sliding time window. The limiter is shared by every dispatcher in the
// process: a single critical section guards the windows so two workers
// can never both claim the last slot of a budget.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter tracks request grants per provider within a trailing window.
type Limiter struct {
	mu      sync.Mutex
	budgets map[string]*budget
	now     func() time.Time
}

type budget struct {
	limit  int
	window time.Duration
	grants []time.Time
}

// New creates an empty limiter. Providers must be registered with
// SetBudget before Acquire is called for them; unregistered providers
// are granted unconditionally.
func New() *Limiter {
	return &Limiter{
		budgets: make(map[string]*budget),
		now:     time.Now,
	}
}

// SetBudget configures the request ceiling for a provider, e.g. 15
// requests per 60-second window.
func (l *Limiter) SetBudget(provider string, limit int, window time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.budgets[provider] = &budget{limit: limit, window: window}
}

// Acquire either grants a request slot immediately (ok true) or returns
// the duration the caller must wait before asking again. A grant is
// recorded atomically with the decision.
func (l *Limiter) Acquire(provider string) (ok bool, wait time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, exists := l.budgets[provider]
	if !exists || b.limit <= 0 {
		return true, 0
	}

	now := l.now()
	b.expire(now)

	if len(b.grants) < b.limit {
		b.grants = append(b.grants, now)
		return true, 0
	}

	// Full window: wait until the oldest grant slides out.
	return false, b.grants[0].Add(b.window).Sub(now)
}

// Used returns how many grants are currently inside the provider's window.
func (l *Limiter) Used(provider string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, exists := l.budgets[provider]
	if !exists {
		return 0
	}
	b.expire(l.now())
	return len(b.grants)
}

// expire drops grants that have left the trailing window. Grants are
// appended in time order, so the prefix is the expired part.
func (b *budget) expire(now time.Time) {
	cutoff := now.Add(-b.window)
	i := 0
	for i < len(b.grants) && !b.grants[i].After(cutoff) {
		i++
	}
	if i > 0 {
		b.grants = append(b.grants[:0], b.grants[i:]...)
	}
}
