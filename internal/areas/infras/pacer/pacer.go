package pacer

import (
	"context"
	"errors"
	"log/slog"
	"time"

	internal_error "github.com/aria3ppp/delivery-areas-seeder/internal/areas/error"
	"github.com/aria3ppp/delivery-areas-seeder/internal/areas/usecase"

	"github.com/cenkalti/backoff/v5"
)

type fixedDelay struct {
	delay  time.Duration
	logger *slog.Logger
}

var _ usecase.Pacer = (*fixedDelay)(nil)

// NewFixedDelay returns a pacer that always waits the same delay.
func NewFixedDelay(delay time.Duration, logger *slog.Logger) *fixedDelay {
	return &fixedDelay{delay: delay, logger: logger}
}

func (p *fixedDelay) Wait(ctx context.Context) error {
	if p.delay <= 0 {
		return ctx.Err()
	}

	p.logger.Debug("waiting before next request", slog.Duration("delay", p.delay))

	timer := time.NewTimer(p.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

type retrier struct {
	maxTries        uint
	initialInterval time.Duration
	logger          *slog.Logger
}

var _ usecase.Retrier = (*retrier)(nil)

// NewRetrier returns a retrier that reruns an operation failing in transport
// up to maxTries times with exponential backoff. Errors carrying an answer
// from the admin API are never retried. A maxTries of 1 runs the operation
// once.
func NewRetrier(maxTries uint, initialInterval time.Duration, logger *slog.Logger) *retrier {
	return &retrier{
		maxTries:        maxTries,
		initialInterval: initialInterval,
		logger:          logger,
	}
}

func (r *retrier) Do(ctx context.Context, op func() error) error {
	if r.maxTries <= 1 {
		return op()
	}

	policy := backoff.NewExponentialBackOff()
	if r.initialInterval > 0 {
		policy.InitialInterval = r.initialInterval
	}

	attempt := 0
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempt++
		err := op()
		if err == nil {
			return struct{}{}, nil
		}

		var apiErr *internal_error.APIError
		if errors.As(err, &apiErr) {
			return struct{}{}, backoff.Permanent(err)
		}

		r.logger.Warn("attempt failed", slog.Int("attempt", attempt), slog.Any("error", err))
		return struct{}{}, err
	},
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(r.maxTries),
	)

	return err
}
