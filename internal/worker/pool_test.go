package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type indexJob struct {
	index int
	delay time.Duration
}

type indexResult struct {
	index int
}

func (r indexResult) GetError() error { return nil }

func (j indexJob) Execute(ctx context.Context) Result {
	if j.delay > 0 {
		time.Sleep(j.delay)
	}
	return indexResult{index: j.index}
}

func TestPool_MapPreservesJobOrder(t *testing.T) {
	jobs := make([]Job, 8)
	for i := range jobs {
		// Later jobs finish earlier; result order must not change
		jobs[i] = indexJob{index: i, delay: time.Duration(8-i) * time.Millisecond}
	}

	pool := NewPool(4)
	results := pool.Map(context.Background(), jobs)

	require.Len(t, results, 8)
	for i, res := range results {
		require.NotNil(t, res)
		assert.Equal(t, i, res.(indexResult).index)
	}
}

func TestPool_SingleWorkerIsSequential(t *testing.T) {
	jobs := []Job{indexJob{index: 0}, indexJob{index: 1}, indexJob{index: 2}}

	results := NewPool(1).Map(context.Background(), jobs)

	require.Len(t, results, 3)
	for i, res := range results {
		assert.Equal(t, i, res.(indexResult).index)
	}
}

func TestPool_EmptyJobs(t *testing.T) {
	results := NewPool(4).Map(context.Background(), nil)
	assert.Empty(t, results)
}

func TestPool_CancelledContextSkipsRemaining(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	jobs := make([]Job, 16)
	for i := range jobs {
		jobs[i] = indexJob{index: i}
	}

	results := NewPool(2).Map(ctx, jobs)
	require.Len(t, results, 16)
	// At least the tail must have been skipped
	assert.Nil(t, results[len(results)-1])
}

func TestNewPool_ClampsWorkerCount(t *testing.T) {
	assert.Equal(t, 1, NewPool(0).Workers())
	assert.Equal(t, 1, NewPool(-3).Workers())
	assert.Equal(t, 6, NewPool(6).Workers())
}
