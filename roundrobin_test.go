package lwp

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundRobin_Empty(t *testing.T) {
	rr := NewRoundRobin()
	assert.Equal(t, 0, rr.Len())
	assert.Equal(t, NoThread, rr.Next())
	assert.Nil(t, rr.Pool())
}

func TestRoundRobin_CyclesInAdmissionOrder(t *testing.T) {
	rr := NewRoundRobin()
	for id := ID(2); id <= 5; id++ {
		rr.Admit(id)
	}
	require.Equal(t, 4, rr.Len())

	var got []ID
	for i := 0; i < 12; i++ {
		got = append(got, rr.Next())
	}
	assert.Equal(t, []ID{2, 3, 4, 5, 2, 3, 4, 5, 2, 3, 4, 5}, got)
	assert.Equal(t, 4, rr.Len())
}

func TestRoundRobin_NextRotates(t *testing.T) {
	rr := NewRoundRobin()
	rr.Admit(2)
	rr.Admit(3)
	rr.Admit(4)
	assert.Equal(t, ID(2), rr.Next())
	assert.Equal(t, []ID{3, 4, 2}, rr.Pool())
}

func TestRoundRobin_Remove(t *testing.T) {
	rr := NewRoundRobin()
	for id := ID(1); id <= 4; id++ {
		rr.Admit(id)
	}
	rr.Remove(3)
	assert.Equal(t, []ID{1, 2, 4}, rr.Pool())
	assert.Equal(t, ID(1), rr.Next())
	assert.Equal(t, ID(2), rr.Next())
	assert.Equal(t, ID(4), rr.Next())

	rr.Admit(7)
	assert.Equal(t, []ID{1, 2, 4, 7}, rr.Pool())
}

func TestRoundRobin_RemoveAbsentPanics(t *testing.T) {
	rr := NewRoundRobin()
	rr.Admit(2)
	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(error)
		require.True(t, ok)
		assert.True(t, errors.Is(err, ErrNotInList))
		assert.Equal(t, 1, rr.Len())
	}()
	rr.Remove(9)
}

func TestRoundRobin_Growth(t *testing.T) {
	rr := NewRoundRobin()
	const n = roundRobinInitialSize*4 + 3
	for id := ID(2); id < n+2; id++ {
		rr.Admit(id)
	}
	require.Equal(t, n, rr.Len())
	for id := ID(2); id < n+2; id++ {
		require.Equal(t, id, rr.Next())
	}
}
