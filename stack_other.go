// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

//go:build !unix

package lwp

import (
	"os"
)

func pageSize() int {
	return os.Getpagesize()
}

// stackLimit has no portable source off unix.
func stackLimit() (uint64, bool) {
	return 0, false
}

// mapStack falls back to a heap region. Go allocations of this size are page
// aligned in practice; newStack still checks.
func mapStack(size int) ([]byte, error) {
	return make([]byte, size), nil
}

func unmapStack([]byte) error {
	return nil
}
