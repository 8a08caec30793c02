// Copyright (c) 2024 Nexthop Labs, Inc.
// See LICENSE for copying information.

package fec

import (
	"golang.org/x/exp/slices"

	"github.com/nexthop-labs/tcpfec/internal/invariant"
)

// ReferenceWindow is the bounded FIFO of retained clones of recently
// delivered in-order data (spec.md section 2, "Reference Window", and
// section 4.2).
//
// Entries are ordered oldest-first and always cover a contiguous subrange
// of the in-order stream ending at rcv_nxt (invariant I3). A
// ReferenceWindow belongs to exactly one connection and is never touched
// concurrently (spec.md section 5).
type ReferenceWindow struct {
	limit uint32

	entries   []Segment
	bytesUsed uint32
}

// NewReferenceWindow returns an empty window bounded by limit bytes
// (FEC_RCV_QUEUE_LIMIT; see Config.RcvQueueLimit).
func NewReferenceWindow(limit uint32) *ReferenceWindow {
	return &ReferenceWindow{limit: limit}
}

// BytesUsed returns bytes_rcv_queue.
func (w *ReferenceWindow) BytesUsed() uint32 { return w.bytesUsed }

// Len returns the number of retained segment references.
func (w *ReferenceWindow) Len() int { return len(w.entries) }

// payloadLen returns a segment's data length per the FIN accounting rule
// (dataRange in transport.go).
func payloadLen(seg Segment) uint32 {
	start, end := dataRange(seg)
	if seqGreater(start, end) {
		return 0
	}
	return end - start
}

// Retain clones seg's reference and appends it to the tail, then evicts
// from the head while the bound would otherwise be exceeded (spec.md
// section 4.2). It must be called exactly once per in-order data segment
// at the moment it transitions to delivered (invariant P1); segments with
// an empty payload are not retained.
func (w *ReferenceWindow) Retain(seg Segment) {
	n := payloadLen(seg)
	if n == 0 {
		return
	}

	clone := seg.Retain()
	w.entries = append(w.entries, clone)
	w.bytesUsed += n

	for len(w.entries) > 0 {
		head := w.entries[0]
		headLen := payloadLen(head)
		if w.bytesUsed-headLen < w.limit {
			break
		}
		w.bytesUsed -= headLen
		head.Release()
		w.entries = slices.Delete(w.entries, 0, 1)
	}

	invariant.Check(w.bytesUsed <= w.limit+n, "I2: bytes_rcv_queue bound")
}

// Purge drops all retained references (spec.md section 4.2 and section
// 4.6's Disable).
func (w *ReferenceWindow) Purge() {
	for _, e := range w.entries {
		e.Release()
	}
	w.entries = nil
	w.bytesUsed = 0
}

// IterateFrom yields up to maxBytes contiguous payload bytes starting at
// seq, stopping at a gap, at a segment carrying RST or SYN, or once
// maxBytes have been delivered (spec.md section 4.2). It implements
// byteSource so the decode engine can walk the reference window and the
// out-of-order queue identically.
func (w *ReferenceWindow) IterateFrom(seq uint32, maxBytes uint32, sink func([]byte)) (uint32, error) {
	var delivered uint32
	next := seq

	for _, e := range w.entries {
		if maxBytes > 0 && delivered >= maxBytes {
			break
		}
		start, end := dataRange(e)
		if seqLessEqual(end, next) {
			// entirely before seq (or before what we've already consumed)
			continue
		}
		if seqGreater(start, next) {
			// gap: the window has nothing covering [next, start)
			break
		}
		if e.Flags().Any(SegRST | SegSYN) {
			break
		}

		payload, err := e.Payload()
		if err != nil {
			return delivered, ErrLinearization
		}
		offset := next - start
		avail := payload[offset:]
		want := maxBytes - delivered
		if maxBytes == 0 || uint32(len(avail)) < want {
			want = uint32(len(avail))
		}
		if want == 0 {
			continue
		}
		sink(avail[:want])
		delivered += want
		next += want
	}
	return delivered, nil
}
