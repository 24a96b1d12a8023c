package infra

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Budget enforces an outbound requests-per-second budget per destination
// (provider host). Unrelated destinations never contend with each other.
type Budget struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// NewBudget creates a budget allowing rps requests per second with the
// given burst per destination.
func NewBudget(rps float64, burst int) *Budget {
	return &Budget{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(rps),
		burst:    burst,
	}
}

// Wait blocks until the destination's limiter grants a slot or the
// context is cancelled.
func (b *Budget) Wait(ctx context.Context, destination string) error {
	b.mu.Lock()
	l, ok := b.limiters[destination]
	if !ok {
		l = rate.NewLimiter(b.limit, b.burst)
		b.limiters[destination] = l
	}
	b.mu.Unlock()
	return l.Wait(ctx)
}
