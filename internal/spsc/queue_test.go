package spsc

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCapacityValidation(t *testing.T) {
	for _, capacity := range []int{-1, 0, 1, 3, 6, 100} {
		_, err := New[int](capacity)
		assert.Error(t, err, "capacity %d should be rejected", capacity)
	}
	for _, capacity := range []int{2, 4, 8, 1024, 65536} {
		q, err := New[int](capacity)
		require.NoError(t, err)
		assert.Equal(t, capacity, q.Cap())
	}
}

func TestPushPopOrder(t *testing.T) {
	q, err := New[int](8)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		require.True(t, q.TryPush(i))
	}
	assert.Equal(t, 5, q.Len())

	for i := 0; i < 5; i++ {
		var v int
		require.True(t, q.TryPop(&v))
		assert.Equal(t, i, v)
	}

	var v int
	assert.False(t, q.TryPop(&v), "queue should be empty")
	assert.True(t, q.IsEmpty())
}

func TestFullQueueRejectsPush(t *testing.T) {
	q, err := New[int](8)
	require.NoError(t, err)

	// Usable capacity is capacity-1: the full check is next-tail >= cap.
	pushed := 0
	for q.TryPush(pushed) {
		pushed++
	}
	assert.Equal(t, 7, pushed)
	assert.True(t, q.IsFull())

	// A failed push leaves size and contents unchanged.
	before := q.Len()
	assert.False(t, q.TryPush(999))
	assert.Equal(t, before, q.Len())

	for i := 0; i < pushed; i++ {
		var v int
		require.True(t, q.TryPop(&v))
		assert.Equal(t, i, v, "contents must be unchanged after rejected push")
	}
}

func TestWrapAround(t *testing.T) {
	q, err := New[int](4)
	require.NoError(t, err)

	// Cycle through the ring many times so indices wrap.
	next := 0
	for i := 0; i < 100; i++ {
		require.True(t, q.TryPush(i))
		var v int
		require.True(t, q.TryPop(&v))
		assert.Equal(t, next, v)
		next++
	}
	assert.True(t, q.IsEmpty())
}

func TestUtilization(t *testing.T) {
	q, err := New[int](8)
	require.NoError(t, err)

	assert.Equal(t, 0.0, q.Utilization())
	for i := 0; i < 4; i++ {
		require.True(t, q.TryPush(i))
	}
	assert.InDelta(t, 0.5, q.Utilization(), 0.001)
}

// TestConcurrentNoLossNoDuplication runs one producer against one consumer
// and checks every item arrives exactly once, in order.
func TestConcurrentNoLossNoDuplication(t *testing.T) {
	q, err := New[uint64](256)
	require.NoError(t, err)

	const total = 200000
	done := make(chan struct{})

	go func() {
		defer close(done)
		for i := uint64(0); i < total; i++ {
			for !q.TryPush(i) {
				runtime.Gosched() // full: producer backs off and retries
			}
		}
	}()

	var next uint64
	for next < total {
		var v uint64
		if !q.TryPop(&v) {
			runtime.Gosched()
			continue
		}
		require.Equal(t, next, v, "items must arrive in order without loss or duplication")
		next++
	}
	<-done

	var v uint64
	assert.False(t, q.TryPop(&v))
}
