// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

// Package ring implements a growable FIFO ring buffer, used for the ready
// pool, the blocked-waiters list and the terminated-unreaped list.
package ring

import (
	"golang.org/x/exp/slices"
)

const minSize = 8

// Ring is a power-of-two sized circular buffer. The zero value is not usable,
// see [New].
type Ring[E comparable] struct {
	s    []E
	r, w uint
}

// New returns an empty ring with room for at least size elements before it
// must grow. Size must be a power of 2.
func New[E comparable](size int) *Ring[E] {
	if size <= 0 || size&(size-1) != 0 {
		panic(`lwp: ring: size must be a power of 2`)
	}
	return &Ring[E]{s: make([]E, size)}
}

func (x *Ring[E]) mask(val uint) uint {
	return val & (uint(len(x.s)) - 1)
}

// bounds returns the occupied segments, as x.s[i1:l1] followed by x.s[:l2].
func (x *Ring[E]) bounds() (i1, l1, l2 int) {
	if x.r == x.w {
		return
	}
	i1 = int(x.mask(x.r))
	l1 = int(x.mask(x.w))
	if l1 <= i1 {
		l2 = l1
		l1 = len(x.s)
	}
	return
}

func (x *Ring[E]) Len() int {
	return int(x.w - x.r)
}

func (x *Ring[E]) Cap() int {
	return len(x.s)
}

func (x *Ring[E]) Get(i int) E {
	if i < 0 || i >= x.Len() {
		panic(`lwp: ring: get: index out of range`)
	}
	return x.s[x.mask(x.r+uint(i))]
}

// Slice copies the contents, oldest first.
func (x *Ring[E]) Slice() (b []E) {
	if l := x.Len(); l != 0 {
		b = make([]E, l)
		i1, l1, l2 := x.bounds()
		copy(b, x.s[i1:l1])
		copy(b[l1-i1:], x.s[:l2])
	}
	return b
}

// Index returns the position of the first element equal to value, or -1.
func (x *Ring[E]) Index(value E) int {
	i1, l1, l2 := x.bounds()
	if i := slices.Index(x.s[i1:l1], value); i >= 0 {
		return i
	}
	if i := slices.Index(x.s[:l2], value); i >= 0 {
		return l1 - i1 + i
	}
	return -1
}

// PushBack appends value at the tail, growing the buffer when full.
func (x *Ring[E]) PushBack(value E) {
	if x.Len() == len(x.s) {
		x.grow()
	}
	x.s[x.mask(x.w)] = value
	x.w++
}

// PopFront removes and returns the head, reporting false if empty.
func (x *Ring[E]) PopFront() (value E, ok bool) {
	if x.r == x.w {
		return
	}
	i := x.mask(x.r)
	value, ok = x.s[i], true
	var zero E
	x.s[i] = zero
	x.r++
	return
}

// RemoveAt deletes the element at index, preserving the order of the rest.
func (x *Ring[E]) RemoveAt(index int) E {
	l := x.Len()
	if index < 0 || index >= l {
		panic(`lwp: ring: remove: index out of range`)
	}
	value := x.Get(index)
	// shift whichever side is shorter
	if index < l/2 {
		for i := index; i > 0; i-- {
			x.s[x.mask(x.r+uint(i))] = x.s[x.mask(x.r+uint(i-1))]
		}
		var zero E
		x.s[x.mask(x.r)] = zero
		x.r++
	} else {
		for i := index; i < l-1; i++ {
			x.s[x.mask(x.r+uint(i))] = x.s[x.mask(x.r+uint(i+1))]
		}
		x.w--
		var zero E
		x.s[x.mask(x.w)] = zero
	}
	return value
}

// Remove deletes the first element equal to value, reporting whether one
// was found.
func (x *Ring[E]) Remove(value E) bool {
	i := x.Index(value)
	if i < 0 {
		return false
	}
	x.RemoveAt(i)
	return true
}

func (x *Ring[E]) grow() {
	size := uint(len(x.s)) << 1
	if size < minSize {
		size = minSize
	}
	s := make([]E, size)
	i1, l1, l2 := x.bounds()
	n := copy(s, x.s[i1:l1])
	n += copy(s[n:], x.s[:l2])
	x.r = 0
	x.w = uint(n)
	x.s = s
}
