// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package lwp

import (
	"golang.org/x/exp/slices"
)

// list tags which of the three bookkeeping lists holds a record.
type list uint8

const (
	listNone list = iota
	listReady
	listWaiting
	listTerminated
)

func (l list) String() string {
	switch l {
	case listNone:
		return "none"
	case listReady:
		return "ready"
	case listWaiting:
		return "waiting"
	case listTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// arena owns every thread record, keyed by ID. Lists refer to records only
// by ID, so a reaped record cannot be reached through a stale link.
type arena struct {
	threads map[ID]*thread
	nextID  ID
}

func newArena() *arena {
	return &arena{
		threads: make(map[ID]*thread),
		nextID:  MainID + 1, // MainID is reserved for the original context
	}
}

func (a *arena) alloc() ID {
	id := a.nextID
	a.nextID++
	return id
}

func (a *arena) put(t *thread) {
	a.threads[t.id] = t
}

func (a *arena) get(id ID) *thread {
	return a.threads[id]
}

func (a *arena) drop(id ID) {
	delete(a.threads, id)
}

func (a *arena) len() int {
	return len(a.threads)
}

// ids returns every live identifier, ascending.
func (a *arena) ids() []ID {
	ids := make([]ID, 0, len(a.threads))
	for id := range a.threads {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
