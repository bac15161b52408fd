package consumer

import (
	"context"
	"time"
)

// RetryPolicy bounds how often a consumer re-runs a failing handler on the
// same message before it gives up on it.
type RetryPolicy struct {
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:   5,
		InitialDelay: time.Second,
		MaxDelay:     30 * time.Second,
	}
}

// delay doubles from InitialDelay and is capped at MaxDelay.
func (p RetryPolicy) delay(attempt int) time.Duration {
	if p.InitialDelay <= 0 {
		return 0
	}
	d := p.InitialDelay << min(attempt, 30)
	if d <= 0 || (p.MaxDelay > 0 && d > p.MaxDelay) {
		d = p.MaxDelay
	}
	return d
}

// run calls fn until it succeeds, returns an error permanent accepts, uses
// up MaxRetries or ctx ends. It returns fn's last error.
func (p RetryPolicy) run(
	ctx context.Context,
	fn func() error,
	permanent func(error) bool,
	onRetry func(attempt int, err error),
) error {
	for attempt := 0; ; attempt++ {
		err := fn()
		if err == nil || (permanent != nil && permanent(err)) || attempt >= p.MaxRetries {
			return err
		}
		if onRetry != nil {
			onRetry(attempt+1, err)
		}

		if d := p.delay(attempt); d > 0 {
			timer := time.NewTimer(d)
			select {
			case <-ctx.Done():
				timer.Stop()
				return err
			case <-timer.C:
			}
		} else if ctx.Err() != nil {
			return err
		}
	}
}
