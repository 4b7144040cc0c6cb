package logging

import "golang.org/x/time/rate"

// rateLimiter decides whether one more log line may be written right now.
type rateLimiter interface {
	Allow() bool
}

// limiterAdapter spends one token of a rate.Limiter per emitted log line.
// Lines are dropped, not delayed, so Log never blocks the caller.
type limiterAdapter struct {
	limiter *rate.Limiter
}

// newTokenBucketLimiter allows bursts of up to burst lines, refilled at
// linesPerSecond. Non-positive arguments are raised to 1.
func newTokenBucketLimiter(linesPerSecond float64, burst int) rateLimiter {
	if linesPerSecond <= 0 {
		linesPerSecond = 1
	}
	if burst <= 0 {
		burst = 1
	}

	return &limiterAdapter{
		limiter: rate.NewLimiter(rate.Limit(linesPerSecond), burst),
	}
}

func (l *limiterAdapter) Allow() bool {
	if l == nil || l.limiter == nil {
		return true
	}
	return l.limiter.Allow()
}
