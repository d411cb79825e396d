package sim

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitQueue_FIFOOrder(t *testing.T) {
	// GIVEN a queue with arrivals [1, 2, 3]
	wq := NewWaitQueue(10)
	for _, at := range []float64{1, 2, 3} {
		require.NoError(t, wq.Enqueue(at))
	}

	// WHEN the queue is drained
	var got []float64
	for wq.Len() > 0 {
		at, ok := wq.Dequeue()
		require.True(t, ok)
		got = append(got, at)
	}

	// THEN arrivals come out in the order they went in
	assert.Equal(t, []float64{1, 2, 3}, got)
}

func TestWaitQueue_Peek_NonEmpty_ReturnsFront(t *testing.T) {
	// GIVEN a queue with arrivals [A, B]
	wq := NewWaitQueue(5)
	require.NoError(t, wq.Enqueue(0.5))
	require.NoError(t, wq.Enqueue(0.9))

	// WHEN Peek() is called
	got, ok := wq.Peek()

	// THEN it returns the front element without removing it
	assert.True(t, ok)
	assert.Equal(t, 0.5, got)
	assert.Equal(t, 2, wq.Len(), "Peek must not modify the queue")
}

func TestWaitQueue_Empty_DequeueAndPeekReportFalse(t *testing.T) {
	wq := NewWaitQueue(1)

	_, ok := wq.Dequeue()
	assert.False(t, ok)
	_, ok = wq.Peek()
	assert.False(t, ok)
}

func TestWaitQueue_Overflow(t *testing.T) {
	// GIVEN a queue at capacity
	wq := NewWaitQueue(2)
	require.NoError(t, wq.Enqueue(1))
	require.NoError(t, wq.Enqueue(2))

	// WHEN one more customer arrives
	err := wq.Enqueue(3)

	// THEN the enqueue fails with ErrQueueOverflow and the queue is unchanged
	assert.True(t, errors.Is(err, ErrQueueOverflow))
	assert.Equal(t, []float64{1, 2}, wq.Items())
}

func TestWaitQueue_CapacityFreedByDequeue(t *testing.T) {
	wq := NewWaitQueue(1)
	require.NoError(t, wq.Enqueue(1))
	_, _ = wq.Dequeue()

	assert.NoError(t, wq.Enqueue(2))
	assert.Equal(t, 1, wq.Cap())
}

func TestWaitQueue_ManyCycles_KeepsOrder(t *testing.T) {
	// Exercises the ring buffer growing and wrapping.
	wq := NewWaitQueue(100)
	next := 0.0
	expect := 0.0
	for round := 0; round < 50; round++ {
		for i := 0; i < 37; i++ {
			require.NoError(t, wq.Enqueue(next))
			next++
		}
		for i := 0; i < 30; i++ {
			got, ok := wq.Dequeue()
			require.True(t, ok)
			require.Equal(t, expect, got)
			expect++
		}
		for wq.Len() > 60 {
			got, _ := wq.Dequeue()
			require.Equal(t, expect, got)
			expect++
		}
	}
}

func TestWaitQueue_Enqueue_OutOfOrder_Panics(t *testing.T) {
	wq := NewWaitQueue(5)
	require.NoError(t, wq.Enqueue(2))
	assert.Panics(t, func() { _ = wq.Enqueue(1) })
}

func TestWaitQueue_New_NonPositiveCapacity_Panics(t *testing.T) {
	assert.Panics(t, func() { NewWaitQueue(0) })
}

func TestWaitQueue_String(t *testing.T) {
	wq := NewWaitQueue(3)
	require.NoError(t, wq.Enqueue(1))
	require.NoError(t, wq.Enqueue(2.5))
	assert.Equal(t, "[1 2.5]", wq.String())
}
