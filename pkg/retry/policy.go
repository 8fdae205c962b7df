package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// Policy is an explicit retry policy applied uniformly to external-service
// call sites: a bounded number of attempts with exponential backoff.
// Keeping it a value object makes the policy testable independently of
// the calls it wraps.
type Policy struct {
	MaxAttempts     uint
	InitialInterval time.Duration
	Multiplier      float64

	// OnRetry is invoked before each wait, with the error that caused
	// the retry and the upcoming delay. Optional.
	OnRetry func(err error, next time.Duration)
}

// DefaultPolicy matches the pipeline contract: 3 attempts, 1s base, doubling.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:     3,
		InitialInterval: time.Second,
		Multiplier:      2,
	}
}

// Do runs op until it succeeds, attempts are exhausted, or ctx is done.
func (p Policy) Do(ctx context.Context, op func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialInterval
	b.Multiplier = p.Multiplier
	b.RandomizationFactor = 0

	opts := []backoff.RetryOption{
		backoff.WithBackOff(b),
		backoff.WithMaxTries(p.MaxAttempts),
	}
	if p.OnRetry != nil {
		opts = append(opts, backoff.WithNotify(func(err error, next time.Duration) {
			p.OnRetry(err, next)
		}))
	}

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		return struct{}{}, op()
	}, opts...)
	return err
}
