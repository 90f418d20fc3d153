// Package readiness replaces blind waits with polling against a real
// readiness signal.
package readiness

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.trai.ch/tend/internal/core/domain"
	"go.trai.ch/zerr"
)

// Probe reports whether the awaited condition holds. A probe error is
// treated like "not ready yet" and polling continues.
type Probe func(ctx context.Context) (bool, error)

var errPending = errors.New("condition not met")

// Poll calls probe immediately and then every interval until it reports
// ready, timeout elapses, or ctx is done. On timeout the returned error
// wraps domain.ErrNotReady and the last probe error.
func Poll(ctx context.Context, interval, timeout time.Duration, probe Probe) error {
	if timeout <= 0 {
		ready, err := probe(ctx)
		if err == nil && !ready {
			err = errPending
		}
		if err != nil {
			return zerr.Wrap(err, domain.ErrNotReady.Error())
		}
		return nil
	}
	if interval <= 0 || interval > timeout {
		interval = timeout
	}

	b := backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(interval),
		backoff.WithMaxInterval(interval),
		backoff.WithMultiplier(1),
		backoff.WithRandomizationFactor(0),
		backoff.WithMaxElapsedTime(timeout),
	)

	attempts := 0
	err := backoff.Retry(func() error {
		attempts++
		ready, err := probe(ctx)
		if err != nil {
			return err
		}
		if !ready {
			return errPending
		}
		return nil
	}, backoff.WithContext(b, ctx))
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	wrapped := zerr.Wrap(err, domain.ErrNotReady.Error())
	wrapped = zerr.With(wrapped, "timeout", timeout.String())
	return zerr.With(wrapped, "attempts", attempts)
}

// Sleep waits for d or until ctx is done. It is the fallback for
// collaborators without a readiness query.
func Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
