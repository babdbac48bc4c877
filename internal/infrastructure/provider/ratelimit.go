package provider

import (
	"sync"
	"time"

	"marketdata-service/internal/application"
)

// budget is per-minute rate-limit bookkeeping. It never blocks: callers check
// remaining capacity via Available/RateLimit and consume a unit per upstream
// call with take.
type budget struct {
	perMinute int

	mu        sync.Mutex
	used      int
	windowEnd time.Time
	now       func() time.Time
}

func newBudget(perMinute int) *budget {
	return &budget{perMinute: perMinute, now: time.Now}
}

func (b *budget) roll(now time.Time) {
	if now.After(b.windowEnd) {
		b.used = 0
		b.windowEnd = now.Add(time.Minute)
	}
}

// take consumes one unit of budget, reporting false when exhausted.
func (b *budget) take() bool {
	if b.perMinute <= 0 {
		return true
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.roll(b.now())
	if b.used >= b.perMinute {
		return false
	}
	b.used++
	return true
}

func (b *budget) limit() application.RateLimit {
	if b.perMinute <= 0 {
		return application.RateLimit{Remaining: -1}
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.roll(b.now())
	return application.RateLimit{Remaining: b.perMinute - b.used, ResetAt: b.windowEnd}
}

func (b *budget) exhausted() bool {
	if b.perMinute <= 0 {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.roll(b.now())
	return b.used >= b.perMinute
}
