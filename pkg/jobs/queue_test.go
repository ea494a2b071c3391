package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueRejectsEnqueueBeforeStart(t *testing.T) {
	q := NewQueue("attendance-reports", func(ctx context.Context, task Task) error { return nil }, QueueConfig{})

	err := q.Enqueue(Task{JobID: "job-1"})
	require.Error(t, err)
}

func TestQueueDispatchesTask(t *testing.T) {
	got := make(chan Task, 1)
	q := NewQueue("attendance-reports", func(ctx context.Context, task Task) error {
		got <- task
		return nil
	}, QueueConfig{Workers: 1})

	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Task{JobID: "job-1", Kind: "attendance-report"}))

	select {
	case task := <-got:
		assert.Equal(t, "job-1", task.JobID)
		assert.Equal(t, "attendance-report", task.Kind)
		assert.Zero(t, task.Attempt)
		assert.False(t, task.EnqueuedAt.IsZero())
	case <-time.After(2 * time.Second):
		t.Fatal("task was not dispatched")
	}
}

func TestQueueRetriesFailedTask(t *testing.T) {
	var mu sync.Mutex
	attempts := make([]int, 0, 2)
	done := make(chan struct{})
	q := NewQueue("attendance-reports", func(ctx context.Context, task Task) error {
		mu.Lock()
		attempts = append(attempts, task.Attempt)
		count := len(attempts)
		mu.Unlock()
		if count == 1 {
			return errors.New("transient export failure")
		}
		close(done)
		return nil
	}, QueueConfig{Workers: 1, MaxRetries: 2, RetryDelay: 5 * time.Millisecond})

	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Task{JobID: "job-1"}))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("task was not retried")
	}
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{0, 1}, attempts)
}
