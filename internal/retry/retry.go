// Package retry runs acquisition calls under a bounded retry policy.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/agentstation/farol/pkg/constants"
	"github.com/agentstation/farol/pkg/errors"
	"github.com/agentstation/farol/pkg/logging"
)

// Policy bounds the attempts made for one call.
type Policy struct {
	MaxAttempts int
	Delay       time.Duration
}

// DefaultPolicy returns the warehouse policy: five attempts, ten seconds apart.
func DefaultPolicy() Policy {
	return Policy{MaxAttempts: constants.MaxFetchAttempts, Delay: constants.FetchRetryDelay}
}

// Permanent marks err as terminal. Do stops retrying and returns it.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return backoff.Permanent(err)
}

// Do calls op until it succeeds, returns a Permanent error, the policy is
// exhausted or ctx is done. Failures come back as *errors.ExternalFetchError
// naming the collaborator and the attempts made.
func Do[T any](ctx context.Context, policy Policy, collaborator string, op func(context.Context) (T, error)) (T, error) {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	logger := logging.FromContext(ctx)

	attempts := 0
	operation := func() (T, error) {
		attempts++
		return op(ctx)
	}

	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(policy.Delay), uint64(policy.MaxAttempts-1)),
		ctx,
	)
	notify := func(err error, wait time.Duration) {
		logger.Warn().
			Err(err).
			Str("collaborator", collaborator).
			Int("attempt", attempts).
			Int("max_attempts", policy.MaxAttempts).
			Dur("retry_in", wait).
			Msg("Fetch attempt failed")
	}

	result, err := backoff.RetryNotifyWithData(operation, b, notify)
	if err != nil {
		var zero T
		return zero, errors.NewExternalFetchError(collaborator, attempts, err)
	}
	return result, nil
}
