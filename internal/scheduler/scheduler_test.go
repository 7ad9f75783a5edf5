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

type countingResetter struct {
	calls     atomic.Int32
	olderThan atomic.Int64
	n         int64
	err       error
}

func (c *countingResetter) ResetStaleQuantities(_ context.Context, olderThan time.Duration) (int64, error) {
	c.calls.Add(1)
	c.olderThan.Store(int64(olderThan))
	return c.n, c.err
}

func TestNew_RejectsBadInput(t *testing.T) {
	_, err := New("not a schedule", time.Hour, &countingResetter{})
	assert.Error(t, err)

	_, err = New("@every 1m", 0, &countingResetter{})
	assert.Error(t, err)
}

func TestRunOnce(t *testing.T) {
	r := &countingResetter{n: 4}
	s, err := New("@every 1m", 90*time.Minute, r)
	require.NoError(t, err)

	assert.Equal(t, int64(4), s.RunOnce(context.Background()))
	assert.Equal(t, int32(1), r.calls.Load())
	assert.Equal(t, int64(90*time.Minute), r.olderThan.Load())

	r.err = errors.New("db down")
	assert.Zero(t, s.RunOnce(context.Background()))
}

func TestStartRunsOnSchedule(t *testing.T) {
	r := &countingResetter{}
	s, err := New("@every 1s", time.Hour, r)
	require.NoError(t, err)

	s.Start()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		s.Stop(ctx)
	}()

	assert.Eventually(t, func() bool { return r.calls.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
}
