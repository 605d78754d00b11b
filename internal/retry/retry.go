package retry

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/imtaco/resonare-live/internal/log"
)

// Policy bounds an exponential retry. A zero MaxElapsedTime retries until
// the context ends.
type Policy struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsedTime  time.Duration
}

type Retry interface {
	// Do runs operation until it succeeds, fails permanently, the policy
	// gives up or ctx ends. The last operation error is returned unwrapped.
	Do(ctx context.Context, operation func() error) error
}

func New(logger *log.Logger, policy Policy) Retry {
	return &retryImpl{
		logger: logger,
		policy: policy,
	}
}

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return backoff.Permanent(err)
}

type retryImpl struct {
	logger *log.Logger
	policy Policy
}

func (r *retryImpl) Do(ctx context.Context, operation func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.policy.InitialInterval
	b.MaxInterval = r.policy.MaxInterval
	b.MaxElapsedTime = r.policy.MaxElapsedTime

	attempt := 0
	return backoff.Retry(func() error {
		attempt++
		err := operation()
		if err != nil {
			var permanent *backoff.PermanentError
			r.logger.Warn("Retry attempt failed",
				log.Int("attempt", attempt),
				log.Bool("permanent", errors.As(err, &permanent)),
				log.Error(err))
		}
		return err
	}, backoff.WithContext(b, ctx))
}
