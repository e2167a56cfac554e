package tasks

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"monster-battle/internal/pkg/log"
)

type fakeReaper struct {
	mu    sync.Mutex
	calls []time.Time
	count int
	err   error
}

func (f *fakeReaper) ReapIdle(ctx context.Context, now time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := ctx.Deadline(); !ok {
		return 0, errors.New("reap called without deadline")
	}
	f.calls = append(f.calls, now)
	return f.count, f.err
}

func (f *fakeReaper) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func TestIdleReaperTask_RunOnce(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	reaper := &fakeReaper{count: 2}
	task := NewIdleReaperTask(reaper, "@every 1m", log.NewNopLogger())
	task.now = func() time.Time { return fixed }

	task.RunOnce()
	require.Equal(t, 1, reaper.callCount())
	assert.Equal(t, fixed, reaper.calls[0])

	reaper.err = errors.New("db down")
	task.RunOnce()
	assert.Equal(t, 2, reaper.callCount())
}

func TestIdleReaperTask_StartRejectsBadSchedule(t *testing.T) {
	task := NewIdleReaperTask(&fakeReaper{}, "not a schedule", log.NewNopLogger())
	assert.Error(t, task.Start())
	task.Stop()
}

func TestIdleReaperTask_RunsOnSchedule(t *testing.T) {
	reaper := &fakeReaper{}
	task := NewIdleReaperTask(reaper, "@every 1s", log.NewNopLogger())
	require.NoError(t, task.Start())
	defer task.Stop()

	assert.Eventually(t, func() bool { return reaper.callCount() > 0 }, 3*time.Second, 50*time.Millisecond)
}
