package openlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrioList_Empty(t *testing.T) {
	p := NewPrioList[int]()
	assert.True(t, p.IsEmpty())
	assert.Equal(t, 0, p.Len())

	_, ok := p.Get()
	assert.False(t, ok)
	_, ok = p.Peek()
	assert.False(t, ok)
}

func TestPrioList_Add(t *testing.T) {
	p := NewPrioList[int]()
	p.Add(1, 1.0)
	assert.Equal(t, 1, p.Len())
	p.Add(2, 2.0)
	assert.Equal(t, 2, p.Len())
	assert.False(t, p.IsEmpty())
}

func TestPrioList_Sort(t *testing.T) {
	p := NewPrioList[int]()
	p.Add(3, 3.3)
	p.Add(2, 2.2)
	p.Add(1, 1.1)
	p.Add(5, 5.5)
	p.Add(4, 4.4)

	for _, want := range []int{1, 2, 3, 4, 5} {
		got, ok := p.Get()
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
	assert.True(t, p.IsEmpty())
}

func TestPrioList_TiesLeaveInInsertionOrder(t *testing.T) {
	tests := []struct {
		name    string
		weights []float64
		want    []string
	}{
		{
			name:    "two equal",
			weights: []float64{1, 1},
			want:    []string{"a", "b"},
		},
		{
			name:    "equal behind lighter",
			weights: []float64{2, 1, 2, 1},
			want:    []string{"b", "d", "a", "c"},
		},
		{
			name:    "equal ahead of heavier",
			weights: []float64{3, 0.5, 3, 3},
			want:    []string{"b", "a", "c", "d"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPrioList[string]()
			names := []string{"a", "b", "c", "d"}
			for i, w := range tt.weights {
				p.Add(names[i], w)
			}

			var got []string
			for !p.IsEmpty() {
				v, _ := p.Get()
				got = append(got, v)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPrioList_Peek(t *testing.T) {
	p := NewPrioList[int]()
	for i := 99; i >= 0; i-- {
		p.Add(i, float64(i))
	}

	v, ok := p.Peek()
	require.True(t, ok)
	assert.Equal(t, 0, v)
	assert.Equal(t, 100, p.Len())
}

func TestPrioList_AddClearAdd(t *testing.T) {
	p := NewPrioList[int]()
	p.Add(1, 1.0)
	p.Clear()
	assert.True(t, p.IsEmpty())

	p.Add(2, 2.0)
	assert.False(t, p.IsEmpty())
	v, _ := p.Get()
	assert.Equal(t, 2, v)
}

func TestPrioList_SequentialGet(t *testing.T) {
	const n = 100
	p := NewPrioList[int]()
	for i := 0; i < n; i++ {
		p.Add(i, float64(i))
	}

	for i := 0; i < n; i++ {
		v, ok := p.Get()
		require.True(t, ok)
		assert.Equal(t, i, v)
		assert.Equal(t, n-i-1, p.Len())
	}
}
