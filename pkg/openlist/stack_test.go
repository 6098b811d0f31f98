package openlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStack_Empty(t *testing.T) {
	s := NewStack[int]()
	assert.True(t, s.IsEmpty())
	assert.Equal(t, 0, s.Len())

	_, ok := s.Get()
	assert.False(t, ok)
	_, ok = s.Peek()
	assert.False(t, ok)
}

func TestStack_AddAndPeek(t *testing.T) {
	s := NewStack[int]()
	for i := 0; i < 100; i++ {
		s.Add(i)
	}

	v, ok := s.Peek()
	require.True(t, ok)
	assert.Equal(t, 99, v)
	assert.Equal(t, 100, s.Len())
}

func TestStack_ClearAdd(t *testing.T) {
	s := NewStack[int]()
	for i := 0; i < 100; i++ {
		s.Add(i)
	}
	s.Clear()
	assert.True(t, s.IsEmpty())

	for i := 0; i < 100; i++ {
		s.Add(i)
	}
	assert.Equal(t, 100, s.Len())
}

func TestStack_DrainInReverseOrder(t *testing.T) {
	const n = 100
	s := NewStack[int]()
	for i := 0; i < n; i++ {
		s.Add(i)
	}

	for i := n - 1; i >= 0; i-- {
		v, ok := s.Get()
		require.True(t, ok)
		assert.Equal(t, i, v)
	}
	assert.True(t, s.IsEmpty())
}
