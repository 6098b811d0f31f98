package openlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_Empty(t *testing.T) {
	q := NewQueue[int]()
	assert.True(t, q.IsEmpty())
	assert.Equal(t, 0, q.Len())

	_, ok := q.Get()
	assert.False(t, ok)

	_, ok = q.Peek()
	assert.False(t, ok)
}

func TestQueue_Add(t *testing.T) {
	q := NewQueue[int]()
	q.Add(1)
	assert.Equal(t, 1, q.Len())
	q.Add(2)
	assert.Equal(t, 2, q.Len())
	assert.False(t, q.IsEmpty())
}

func TestQueue_PeekDoesNotRemove(t *testing.T) {
	q := NewQueue[int]()
	for i := 0; i < 100; i++ {
		q.Add(i)
	}

	v, ok := q.Peek()
	require.True(t, ok)
	assert.Equal(t, 0, v)
	assert.Equal(t, 100, q.Len())
}

func TestQueue_Clear(t *testing.T) {
	q := NewQueue[int]()
	q.Clear()
	assert.True(t, q.IsEmpty())

	for i := 0; i < 100; i++ {
		q.Add(i)
	}
	q.Clear()
	assert.True(t, q.IsEmpty())

	for i := 0; i < 100; i++ {
		q.Add(i)
	}
	assert.Equal(t, 100, q.Len())
	v, _ := q.Peek()
	assert.Equal(t, 0, v)
}

func TestQueue_DrainInInsertionOrder(t *testing.T) {
	const n = 100
	q := NewQueue[int]()
	for i := 0; i < n; i++ {
		q.Add(i)
	}
	require.Equal(t, n, q.Len())

	for i := 0; i < n; i++ {
		v, ok := q.Get()
		require.True(t, ok)
		assert.Equal(t, i, v)
		assert.Equal(t, n-i-1, q.Len())
	}
	assert.True(t, q.IsEmpty())
}

func TestQueue_InterleavedAddGet(t *testing.T) {
	q := NewQueue[int]()
	next := 0
	expected := 0

	// Exercise the head compaction path with a queue that never fully drains.
	for round := 0; round < 50; round++ {
		for i := 0; i < 3; i++ {
			q.Add(next)
			next++
		}
		for i := 0; i < 2; i++ {
			v, ok := q.Get()
			require.True(t, ok)
			require.Equal(t, expected, v)
			expected++
		}
	}

	assert.Equal(t, next-expected, q.Len())
	for !q.IsEmpty() {
		v, _ := q.Get()
		assert.Equal(t, expected, v)
		expected++
	}
	assert.Equal(t, next, expected)
}
