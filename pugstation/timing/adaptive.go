package timing

import (
	"log/slog"
	"time"
)

// AdaptiveLimiter uses precise timing with drift compensation.
// Combines sleep for efficiency with busy-waiting for accuracy.
type AdaptiveLimiter struct {
	period  time.Duration
	next    time.Time
	batches int64
	now     func() time.Time
	sleep   func(time.Duration)
}

// NewAdaptiveLimiter returns a limiter releasing one batch every period.
func NewAdaptiveLimiter(period time.Duration) *AdaptiveLimiter {
	return &AdaptiveLimiter{
		period: period,
		next:   time.Now(),
		now:    time.Now,
		sleep:  time.Sleep,
	}
}

func (a *AdaptiveLimiter) Wait() {
	now := a.now()
	sleepTime := a.next.Sub(now)

	if sleepTime > 0 {
		if sleepTime >= 2*time.Millisecond {
			a.sleep(sleepTime - time.Millisecond)
		}
		for a.now().Before(a.next) {
			// busy-wait the last millisecond, higher accuracy.
		}
	} else if sleepTime < -5*time.Millisecond {
		// too far behind to catch up
		a.next = now
	}

	a.next = a.next.Add(a.period)
	a.batches++

	if a.batches%60 == 0 {
		drift := a.now().Sub(a.next)
		if drift.Abs() > 10*time.Millisecond {
			a.next = a.next.Add(drift / 10)
			slog.Debug("Timing drift correction",
				"drift_ms", drift.Milliseconds(),
				"batches", a.batches)
		}
	}
}

func (a *AdaptiveLimiter) Reset() {
	a.next = a.now()
	a.batches = 0
}
