package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingChecker struct {
	calls atomic.Int32
	low   int
}

func (c *countingChecker) CheckLowStock(context.Context) (int, error) {
	c.calls.Add(1)
	return c.low, nil
}

type purgerFunc func(ctx context.Context) (int64, error)

func (f purgerFunc) DeleteExpired(ctx context.Context) (int64, error) { return f(ctx) }

func TestNew_RegistersJobs(t *testing.T) {
	s, err := New(Config{}, &countingChecker{}, map[string]Purger{
		"idempotency keys": purgerFunc(func(context.Context) (int64, error) { return 0, nil }),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, s.JobCount())

	s, err = New(Config{}, &countingChecker{}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, s.JobCount())
}

func TestNew_RejectsBadPurgeTime(t *testing.T) {
	_, err := New(Config{PurgeAt: "25:99"}, nil, map[string]Purger{
		"keys": purgerFunc(func(context.Context) (int64, error) { return 0, nil }),
	})
	assert.Error(t, err)
}

func TestStart_RunsLowStockImmediately(t *testing.T) {
	checker := &countingChecker{low: 3}
	s, err := New(Config{LowStockEveryMinutes: 60}, checker, nil)
	require.NoError(t, err)

	s.Start()
	defer s.Stop()

	assert.Eventually(t, func() bool { return checker.calls.Load() >= 1 }, 2*time.Second, 20*time.Millisecond)
}

func TestPurge_ContinuesPastFailures(t *testing.T) {
	s, err := New(Config{}, nil, map[string]Purger{
		"idempotency keys":      purgerFunc(func(context.Context) (int64, error) { return 4, nil }),
		"password reset tokens": purgerFunc(func(context.Context) (int64, error) { return 0, errors.New("db down") }),
	})
	require.NoError(t, err)

	purged := s.Purge(context.Background())
	assert.Equal(t, map[string]int64{"idempotency keys": 4}, purged)
}

func TestCheckLowStock(t *testing.T) {
	checker := &countingChecker{low: 2}
	s, err := New(Config{}, checker, nil)
	require.NoError(t, err)

	n, err := s.CheckLowStock(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, int32(1), checker.calls.Load())
}
