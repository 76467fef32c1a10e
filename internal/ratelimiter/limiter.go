package ratelimiter

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/notifyhub/decision-notifier/internal/domain"
)

// StageLimiters holds one token bucket per pipeline stage, guarding the
// outbound call (topic publish or email send). Burst equals the rate so no
// capacity is saved up beyond the per-second maximum.
type StageLimiters struct {
	limiters map[domain.Stage]*rate.Limiter
}

// New creates limiters allowing ratePerSec outbound calls per second per
// stage. ratePerSec <= 0 disables limiting.
func New(ratePerSec int) *StageLimiters {
	r, burst := rate.Inf, 0
	if ratePerSec > 0 {
		r, burst = rate.Limit(ratePerSec), ratePerSec
	}

	return &StageLimiters{
		limiters: map[domain.Stage]*rate.Limiter{
			domain.StageRelay:    rate.NewLimiter(r, burst),
			domain.StageDispatch: rate.NewLimiter(r, burst),
		},
	}
}

// Wait blocks until the stage's limiter grants a token.
// Returns a non-nil error only if ctx is cancelled while waiting.
func (sl *StageLimiters) Wait(ctx context.Context, s domain.Stage) error {
	l, ok := sl.limiters[s]
	if !ok {
		return nil
	}
	return l.Wait(ctx)
}
