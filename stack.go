// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package lwp

import (
	"encoding/binary"
	"unsafe"
)

const (
	// defaultStackSize is used when the stack limit is unbounded or unreadable.
	defaultStackSize = 8 << 20

	// stackAlign is the required alignment of the initial stack pointer.
	stackAlign = 16

	// maxBoundedStack is the largest soft limit treated as a real bound. Any
	// larger value is RLIM_INFINITY (or close enough) on supported platforms.
	maxBoundedStack = 1 << 40

	// stackCanary is written to the lowest word of every stack region.
	stackCanary uint64 = 0x6c77705f63616e79

	canarySize = 8
)

// stack is a thread's exclusively owned memory region.
type stack struct {
	mem      []byte
	size     int
	released bool
}

// roundToPage rounds size up to a whole number of pages.
func roundToPage(size, page int) int {
	if page <= 0 {
		return size
	}
	if rem := size % page; rem != 0 {
		size += page - rem
	}
	return size
}

// resolveStackSize picks the size of new stack regions. An override (from
// WithStackSize) wins, otherwise the soft stack limit is used.
func resolveStackSize(override int) int {
	page := pageSize()
	if override > 0 {
		return roundToPage(override, page)
	}
	size, ok := stackLimit()
	if !ok || size == 0 || size > maxBoundedStack {
		size = defaultStackSize
	}
	return roundToPage(int(size), page)
}

// newStack maps a region of size bytes and plants the canary.
func newStack(size int) (*stack, error) {
	mem, err := mapStack(size)
	if err != nil {
		return nil, &AllocError{Size: size, Err: err}
	}
	s := &stack{mem: mem, size: size}
	if s.base()%stackAlign != 0 || s.top()%stackAlign != 0 {
		_ = unmapStack(mem)
		return nil, &AllocError{Size: size, Err: ErrMisaligned}
	}
	binary.LittleEndian.PutUint64(mem[:canarySize], stackCanary)
	return s, nil
}

func (s *stack) base() uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(s.mem)))
}

// top is the initial stack pointer: the stack grows down from here.
func (s *stack) top() uintptr {
	return s.base() + uintptr(s.size)
}

// intact reports whether the canary at the lowest address survived.
func (s *stack) intact() bool {
	return binary.LittleEndian.Uint64(s.mem[:canarySize]) == stackCanary
}

// usable is the region above the canary.
func (s *stack) usable() []byte {
	return s.mem[canarySize:]
}

// release returns the region to the operating system. It must be called
// exactly once; a second call is a consistency error.
func (s *stack) release() error {
	if s.released {
		return ErrStackReleased
	}
	s.released = true
	mem := s.mem
	s.mem = nil
	return unmapStack(mem)
}
