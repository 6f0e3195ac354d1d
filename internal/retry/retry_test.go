package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/farol/internal/retry"
	pkgerrors "github.com/agentstation/farol/pkg/errors"
	"github.com/agentstation/farol/pkg/logging"
)

var fast = retry.Policy{MaxAttempts: 5, Delay: time.Millisecond}

func TestDoSucceedsAfterFailures(t *testing.T) {
	tl := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), tl.Logger)

	calls := 0
	got, err := retry.Do(ctx, fast, "warehouse", func(context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("backend unavailable")
		}
		return "rows", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "rows", got)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 2, tl.Count(), "one warning per failed attempt")
	tl.AssertContains(t, "backend unavailable")
}

func TestDoExhausts(t *testing.T) {
	calls := 0
	_, err := retry.Do(context.Background(), fast, "warehouse", func(context.Context) (int, error) {
		calls++
		return 0, errors.New("quota exceeded")
	})

	require.Error(t, err)
	assert.Equal(t, 5, calls)

	var fetchErr *pkgerrors.ExternalFetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "warehouse", fetchErr.Collaborator)
	assert.Equal(t, 5, fetchErr.Attempts)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestDoPermanentStopsImmediately(t *testing.T) {
	cause := errors.New("missing driver")
	calls := 0
	_, err := retry.Do(context.Background(), fast, "warehouse", func(context.Context) (int, error) {
		calls++
		return 0, retry.Permanent(cause)
	})

	assert.Equal(t, 1, calls)
	assert.True(t, pkgerrors.IsExternalFetch(err))
	assert.ErrorIs(t, err, cause)
}

func TestDoHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	_, err := retry.Do(ctx, retry.Policy{MaxAttempts: 5, Delay: time.Hour}, "places", func(context.Context) (int, error) {
		calls++
		cancel()
		return 0, errors.New("timeout")
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.True(t, pkgerrors.IsExternalFetch(err))
}

func TestDoZeroAttemptsRunsOnce(t *testing.T) {
	calls := 0
	_, err := retry.Do(context.Background(), retry.Policy{}, "file", func(context.Context) (int, error) {
		calls++
		return 0, errors.New("nope")
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestPermanentNil(t *testing.T) {
	assert.NoError(t, retry.Permanent(nil))
	assert.Equal(t, retry.Policy{MaxAttempts: 5, Delay: 10 * time.Second}, retry.DefaultPolicy())
}
