package application

import (
	"context"
	"errors"

	"marketdata-service/internal/domain"

	"github.com/cenkalti/backoff/v4"
)

// fetchWithRetry runs fn up to MaxRetries+1 times with exponential backoff:
// the delay before attempt n is RetryBaseDelay * 2^(n-1). No-data results and
// context cancellation are permanent and stop the attempt chain immediately.
func (s *Service) fetchWithRetry(ctx context.Context, fn func() (domain.Quote, error)) (domain.Quote, error) {
	var q domain.Quote

	op := func() error {
		var err error
		q, err = fn()
		if err == nil {
			return nil
		}
		if errors.Is(err, domain.ErrNoData) ||
			errors.Is(err, domain.ErrUnavailable) ||
			errors.Is(err, context.Canceled) ||
			errors.Is(err, context.DeadlineExceeded) {
			return backoff.Permanent(err)
		}
		return err
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = s.cfg.RetryBaseDelay
	bo.RandomizationFactor = 0
	bo.Multiplier = 2
	bo.MaxInterval = s.cfg.RetryBaseDelay << uint(s.cfg.MaxRetries)
	bo.MaxElapsedTime = 0

	err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(bo, uint64(s.cfg.MaxRetries)), ctx))
	if err != nil {
		return domain.Quote{}, err
	}
	return q, nil
}
