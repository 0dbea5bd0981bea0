// Package usage gates live analyses behind a request rate limit and a
// spending budget. When a check fails the pipeline falls back to a mocked
// result instead of calling external APIs.
package usage

import (
	"sync"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Checker reports whether a live analysis may run and records what it spent.
type Checker interface {
	// Allowed reports whether a live analysis may start right now.
	Allowed() bool
	// Record adds the dollar cost of a completed analysis to the tally.
	Record(cost float64)
	// Spent returns the total recorded cost.
	Spent() float64
	// Reset clears the spending tally.
	Reset()
}

// Limits configures a Tracker.
type Limits struct {
	// PerMinute caps how many live analyses may start per minute.
	PerMinute int
	// Burst allows short spikes above the steady rate.
	Burst int
	// BudgetUSD caps total spend. Zero means no budget limit.
	BudgetUSD float64
}

// Tracker implements Checker with a token-bucket rate limiter and a
// cumulative spend tally.
type Tracker struct {
	limiter *rate.Limiter
	budget  float64

	mu    sync.Mutex
	spent float64
}

// NewTracker creates a Tracker from the given limits. Non-positive rate
// values disable rate limiting.
func NewTracker(limits Limits) *Tracker {
	limit := rate.Inf
	burst := 1
	if limits.PerMinute > 0 {
		limit = rate.Limit(float64(limits.PerMinute) / 60.0)
		burst = limits.Burst
		if burst < 1 {
			burst = 1
		}
	}
	return &Tracker{
		limiter: rate.NewLimiter(limit, burst),
		budget:  limits.BudgetUSD,
	}
}

// Allowed consumes a rate token and checks the budget. A denial is logged
// so operators can see why results went into mock mode.
func (t *Tracker) Allowed() bool {
	t.mu.Lock()
	overBudget := t.budget > 0 && t.spent >= t.budget
	spent := t.spent
	t.mu.Unlock()

	if overBudget {
		zap.L().Warn("usage: budget exhausted",
			zap.Float64("spent_usd", spent),
			zap.Float64("budget_usd", t.budget))
		return false
	}
	if !t.limiter.Allow() {
		zap.L().Warn("usage: rate limit reached")
		return false
	}
	return true
}

// Record adds cost to the spend tally.
func (t *Tracker) Record(cost float64) {
	if cost <= 0 {
		return
	}
	t.mu.Lock()
	t.spent += cost
	t.mu.Unlock()
}

// Spent returns the total recorded cost.
func (t *Tracker) Spent() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.spent
}

// Reset clears the spend tally.
func (t *Tracker) Reset() {
	t.mu.Lock()
	t.spent = 0
	t.mu.Unlock()
}

// Unlimited is a Checker that always allows and ignores costs. Used in
// tests and when limits are disabled.
type Unlimited struct{}

func (Unlimited) Allowed() bool  { return true }
func (Unlimited) Record(float64) {}
func (Unlimited) Spent() float64 { return 0 }
func (Unlimited) Reset()         {}
