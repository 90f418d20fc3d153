package readiness_test

import (
	"context"
	"errors"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/tend/internal/core/domain"
	"go.trai.ch/tend/internal/engine/readiness"
)

func TestPoll_ReadyImmediately(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		calls := 0
		start := time.Now()

		err := readiness.Poll(t.Context(), time.Second, 10*time.Second, func(context.Context) (bool, error) {
			calls++
			return true, nil
		})

		require.NoError(t, err)
		assert.Equal(t, 1, calls)
		assert.Zero(t, time.Since(start))
	})
}

func TestPoll_ReadyAfterSomeAttempts(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		calls := 0
		start := time.Now()

		err := readiness.Poll(t.Context(), 2*time.Second, 30*time.Second, func(context.Context) (bool, error) {
			calls++
			if calls < 3 {
				return false, errors.New("adapter still negotiating")
			}
			return true, nil
		})

		require.NoError(t, err)
		assert.Equal(t, 3, calls)
		assert.Equal(t, 4*time.Second, time.Since(start))
	})
}

func TestPoll_Timeout(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		start := time.Now()

		err := readiness.Poll(t.Context(), time.Second, 5*time.Second, func(context.Context) (bool, error) {
			return false, nil
		})

		require.Error(t, err)
		assert.ErrorContains(t, err, domain.ErrNotReady.Error())
		assert.Equal(t, 5*time.Second, time.Since(start))
	})
}

func TestPoll_Cancelled(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctx, cancel := context.WithTimeout(t.Context(), 3*time.Second)
		defer cancel()

		err := readiness.Poll(ctx, time.Second, time.Minute, func(context.Context) (bool, error) {
			return false, nil
		})

		require.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestSleep(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		start := time.Now()
		require.NoError(t, readiness.Sleep(t.Context(), 15*time.Second))
		assert.Equal(t, 15*time.Second, time.Since(start))

		ctx, cancel := context.WithCancel(t.Context())
		cancel()
		require.ErrorIs(t, readiness.Sleep(ctx, time.Hour), context.Canceled)
	})
}

func TestPoll_ZeroTimeoutProbesOnce(t *testing.T) {
	t.Parallel()

	calls := 0
	err := readiness.Poll(t.Context(), time.Second, 0, func(context.Context) (bool, error) {
		calls++
		return false, nil
	})

	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrNotReady.Error())
	assert.Equal(t, 1, calls)
}
