package lwp

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundToPage(t *testing.T) {
	tests := []struct {
		size, page, want int
	}{
		{0, 4096, 0},
		{1, 4096, 4096},
		{4096, 4096, 4096},
		{4097, 4096, 8192},
		{defaultStackSize, 4096, defaultStackSize},
		{100, 0, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, roundToPage(tt.size, tt.page), "roundToPage(%d, %d)", tt.size, tt.page)
	}
}

func TestResolveStackSize(t *testing.T) {
	page := pageSize()
	require.Greater(t, page, 0)

	t.Run("override", func(t *testing.T) {
		assert.Equal(t, page, resolveStackSize(1))
		assert.Equal(t, 2*page, resolveStackSize(page+1))
	})

	t.Run("limit", func(t *testing.T) {
		size := resolveStackSize(0)
		assert.Greater(t, size, 0)
		assert.Zero(t, size%page)
		if limit, ok := stackLimit(); !ok || limit == 0 || limit > maxBoundedStack {
			assert.Equal(t, roundToPage(defaultStackSize, page), size)
		} else {
			assert.Equal(t, roundToPage(int(limit), page), size)
		}
	})
}

func TestNewStack(t *testing.T) {
	size := 4 * pageSize()
	s, err := newStack(size)
	require.NoError(t, err)

	assert.Equal(t, size, s.size)
	assert.Len(t, s.mem, size)
	assert.Zero(t, s.base()%stackAlign)
	assert.Zero(t, s.top()%stackAlign)
	assert.Equal(t, s.base()+uintptr(size), s.top())
	assert.True(t, s.intact())
	assert.Len(t, s.usable(), size-canarySize)

	// the usable region is writable, and does not overlap the canary
	u := s.usable()
	for i := range u {
		u[i] = 0xAA
	}
	assert.True(t, s.intact())

	s.mem[0] ^= 0xFF
	assert.False(t, s.intact())

	require.NoError(t, s.release())
	assert.Nil(t, s.mem)
	assert.True(t, errors.Is(s.release(), ErrStackReleased))
}
