// Copyright (c) 2024 Nexthop Labs, Inc.
// See LICENSE for copying information.

// Package segref provides a reference-counted arena of segment payload
// records, for holding the reference window's retained clones of
// delivered data (spec.md section 9, "Design Notes": "a systems-language
// implementation should model this as an arena of segment records with
// reference counts... There are no cycles; ownership forms a forest.").
//
// This package adapts the locking discipline of the teacher's
// buffers.SyncCircularBuffer (storj.io/utp-go/buffers) -- a single mutex
// guarding a small bookkeeping struct, with no blocking in the hot path --
// to a very different shape: instead of a byte ring buffer shared between
// a read and write side, this is a pool of independently owned, reference
// counted byte records, since the engine never needs to wait for space or
// data (spec.md section 5: "No FEC operation blocks or suspends").
package segref

import (
	"sync"
	"sync/atomic"
)

// Record is one arena-owned, reference-counted payload.
type Record struct {
	arena   *Arena
	payload []byte

	refs int32
}

// Payload returns the record's bytes. The returned slice must not be
// mutated; the reference window exposes only read-only byte access
// (spec.md section 4.2).
func (r *Record) Payload() []byte { return r.payload }

// Retain increments the record's reference count and returns the same
// record, mirroring Segment.Retain's "cloned reference, payload not
// copied" contract.
func (r *Record) Retain() *Record {
	atomic.AddInt32(&r.refs, 1)
	return r
}

// Release decrements the reference count, returning the record's backing
// storage to the arena's free list once it reaches zero.
func (r *Record) Release() {
	if atomic.AddInt32(&r.refs, -1) == 0 {
		r.arena.put(r)
	}
}

// Arena hands out Records backed by pooled byte slices. Allocation comes
// from a free list rather than the garbage collector's allocator so it
// stays cheap and non-sleeping even when called from a receive path that
// may run in soft-interrupt-equivalent context (spec.md section 5).
//
// An Arena is safe to share across connections -- unlike a connection's
// *fec.State, which is never touched concurrently (spec.md section 5)..
type Arena struct {
	mu   sync.Mutex
	free []*Record
}

// New returns an empty Arena.
func New() *Arena {
	return &Arena{}
}

// Clone copies data into a new (or recycled) Record with one reference
// held. The copy is intentional and happens exactly once, at retention
// time (spec.md section 4.2: "Clones the segment's reference (payload is
// not copied)" refers to the *segment* reference as seen by the rest of
// the transport; the reference window's own retained copy is this
// arena's private copy, made so the window's lifetime is independent of
// whatever buffer the transport recycles next).
func (a *Arena) Clone(data []byte) *Record {
	a.mu.Lock()
	var rec *Record
	if n := len(a.free); n > 0 {
		rec = a.free[n-1]
		a.free = a.free[:n-1]
	}
	a.mu.Unlock()

	if rec == nil {
		rec = &Record{arena: a}
	}
	if cap(rec.payload) < len(data) {
		rec.payload = make([]byte, len(data))
	} else {
		rec.payload = rec.payload[:len(data)]
	}
	copy(rec.payload, data)
	rec.refs = 1
	return rec
}

func (a *Arena) put(rec *Record) {
	rec.payload = rec.payload[:0]
	a.mu.Lock()
	a.free = append(a.free, rec)
	a.mu.Unlock()
}
