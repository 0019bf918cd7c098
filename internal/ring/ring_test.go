package ring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_PanicWithInvalidSize(t *testing.T) {
	assert.Panics(t, func() { New[int](0) })
	assert.Panics(t, func() { New[int](3) })
	assert.NotPanics(t, func() { New[int](1) })
}

func TestRing_FIFO(t *testing.T) {
	r := New[int](2)
	for i := 1; i <= 5; i++ {
		r.PushBack(i)
	}
	require.Equal(t, 5, r.Len())
	require.Equal(t, 8, r.Cap())
	assert.Equal(t, []int{1, 2, 3, 4, 5}, r.Slice())

	for i := 1; i <= 5; i++ {
		v, ok := r.PopFront()
		require.True(t, ok)
		assert.Equal(t, i, v)
	}
	_, ok := r.PopFront()
	assert.False(t, ok)
	assert.Nil(t, r.Slice())
}

func TestRing_WrapAround(t *testing.T) {
	r := New[int](4)
	// rotate repeatedly, so the occupied region straddles the end of the buffer
	for i := 0; i < 4; i++ {
		r.PushBack(i)
	}
	for n := 0; n < 10; n++ {
		v, ok := r.PopFront()
		require.True(t, ok)
		r.PushBack(v)
	}
	assert.Equal(t, 4, r.Cap())
	assert.Equal(t, []int{2, 3, 0, 1}, r.Slice())
	assert.Equal(t, 2, r.Index(0))
	assert.Equal(t, 0, r.Index(2))
	assert.Equal(t, -1, r.Index(9))

	// grow while wrapped
	r.PushBack(4)
	assert.Equal(t, 8, r.Cap())
	assert.Equal(t, []int{2, 3, 0, 1, 4}, r.Slice())
}

func TestRing_RemoveAt(t *testing.T) {
	tests := []struct {
		name  string
		index int
		want  []int
	}{
		{"head", 0, []int{2, 3, 4, 5}},
		{"near head", 1, []int{1, 3, 4, 5}},
		{"middle", 2, []int{1, 2, 4, 5}},
		{"near tail", 3, []int{1, 2, 3, 5}},
		{"tail", 4, []int{1, 2, 3, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New[int](4)
			// offset the read cursor, to exercise the masked indexing
			r.PushBack(0)
			r.PopFront()
			for i := 1; i <= 5; i++ {
				r.PushBack(i)
			}
			got := r.RemoveAt(tt.index)
			assert.Equal(t, tt.index+1, got)
			assert.Equal(t, tt.want, r.Slice())
			assert.Equal(t, 4, r.Len())
		})
	}
}

func TestRing_Remove(t *testing.T) {
	r := New[string](4)
	r.PushBack("a")
	r.PushBack("b")
	r.PushBack("c")
	assert.True(t, r.Remove("b"))
	assert.False(t, r.Remove("b"))
	assert.Equal(t, []string{"a", "c"}, r.Slice())
	assert.Panics(t, func() { r.RemoveAt(2) })
	assert.Panics(t, func() { r.Get(-1) })
}
