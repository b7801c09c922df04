package queue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTryPutRejectsWhenFull(t *testing.T) {
	q := NewBounded[int](2)

	assert.True(t, q.TryPut(1))
	assert.True(t, q.TryPut(2))
	assert.False(t, q.TryPut(3), "full queue must reject without blocking")
	assert.Equal(t, 2, q.Len())
	assert.Equal(t, 2, q.Cap())
}

func TestTakeReturnsInOrder(t *testing.T) {
	q := NewBounded[string](3)
	require.True(t, q.TryPut("a"))
	require.True(t, q.TryPut("b"))

	ctx := context.Background()
	v, err := q.Take(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a", v)

	v, err = q.Take(ctx)
	require.NoError(t, err)
	assert.Equal(t, "b", v)
}

func TestPutBlocksUntilSpace(t *testing.T) {
	q := NewBounded[int](1)
	require.True(t, q.TryPut(1))

	done := make(chan error, 1)
	go func() {
		done <- q.Put(context.Background(), 2)
	}()

	// The put must be parked while the queue is full.
	select {
	case <-done:
		t.Fatal("put returned while queue was full")
	case <-time.After(50 * time.Millisecond):
	}

	_, err := q.Take(context.Background())
	require.NoError(t, err)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("put did not complete after space freed")
	}
}

func TestTakeWokenByCancellation(t *testing.T) {
	q := NewBounded[int](1)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := q.Take(ctx)
		done <- err
	}()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("take not woken by cancellation")
	}
}

func TestPutWokenByCancellation(t *testing.T) {
	q := NewBounded[int](1)
	require.True(t, q.TryPut(1))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- q.Put(ctx, 2)
	}()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("put not woken by cancellation")
	}
}
