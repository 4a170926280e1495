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

func TestRegister_InvalidSpec(t *testing.T) {
	s := New(0)
	err := s.Register(FuncJob{JobName: "bad", Spec: "not a cron", Fn: func(context.Context) error { return nil }})
	require.Error(t, err)
	assert.Empty(t, s.Jobs())
}

func TestRunNow(t *testing.T) {
	s := New(0)
	var calls int32
	require.NoError(t, s.Register(FuncJob{
		JobName: "refresh",
		Fn: func(context.Context) error {
			atomic.AddInt32(&calls, 1)
			return nil
		},
	}))

	require.NoError(t, s.RunNow(context.Background(), "refresh"))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, []string{"refresh"}, s.Jobs())

	assert.Error(t, s.RunNow(context.Background(), "missing"))
}

func TestRunNow_PropagatesError(t *testing.T) {
	s := New(0)
	boom := errors.New("boom")
	require.NoError(t, s.Register(FuncJob{JobName: "fail", Fn: func(context.Context) error { return boom }}))

	assert.ErrorIs(t, s.RunNow(context.Background(), "fail"), boom)
}

func TestExecute_AppliesTimeout(t *testing.T) {
	s := New(10 * time.Millisecond)
	var sawDeadline atomic.Bool
	job := FuncJob{JobName: "slow", Fn: func(ctx context.Context) error {
		_, ok := ctx.Deadline()
		sawDeadline.Store(ok)
		<-ctx.Done()
		return ctx.Err()
	}}

	s.execute(job)
	assert.True(t, sawDeadline.Load())
}

func TestStartStop(t *testing.T) {
	s := New(0)
	require.NoError(t, s.Register(FuncJob{JobName: "hourly", Spec: "@hourly", Fn: func(context.Context) error { return nil }}))

	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, s.Stop(ctx))
}
