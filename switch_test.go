package lwp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSwapRfiles_PingPong(t *testing.T) {
	root := newRegfile(nil)
	require.True(t, root.started)
	require.Nil(t, root.done)

	var (
		trace []string
		other *regfile
	)
	other = newRegfile(func() {
		for i := 0; i < 3; i++ {
			trace = append(trace, "other")
			swapRfiles(other, root)
		}
		trace = append(trace, "other done")
		transfer(root)
	})
	assert.False(t, other.started)

	for i := 0; i < 3; i++ {
		trace = append(trace, "root")
		swapRfiles(root, other)
	}
	trace = append(trace, "root")
	swapRfiles(root, other)
	join(other)

	assert.Equal(t, []string{
		"root", "other",
		"root", "other",
		"root", "other",
		"root", "other done",
	}, trace)
}

func TestAbort(t *testing.T) {
	t.Run("suspended", func(t *testing.T) {
		root := newRegfile(nil)
		var (
			other    *regfile
			deferred bool
			resumed  bool
		)
		other = newRegfile(func() {
			defer func() { deferred = true }()
			swapRfiles(other, root)
			resumed = true
		})
		swapRfiles(root, other)
		abort(other)
		assert.True(t, deferred)
		assert.False(t, resumed)
	})

	t.Run("never started", func(t *testing.T) {
		x := newRegfile(func() { t.Error("unexpected run") })
		abort(x)
		join(x)
		assert.False(t, x.started)
	})

	t.Run("original context", func(t *testing.T) {
		x := newRegfile(nil)
		abort(x)
		join(x)
		assert.Empty(t, x.resume)
	})
}
