// Copyright (c) 2024 Nexthop Labs, Inc.
// See LICENSE for copying information.

package fec

// SegFlags mirrors the handful of transport-header flags the engine cares
// about. The host transport's own flag encoding is richer; adapters only
// need to report these four bits truthfully.
type SegFlags uint8

const (
	SegSYN SegFlags = 1 << iota
	SegFIN
	SegRST
	SegACK
)

// Has reports whether all bits in want are set.
func (f SegFlags) Has(want SegFlags) bool { return f&want == want }

// Any reports whether any bit in want is set.
func (f SegFlags) Any(want SegFlags) bool { return f&want != 0 }

// Segment is the slice of a transport-owned segment this engine needs to
// read, clone, and (for the synthesizer) rewrite. Segment allocation
// itself is out of scope (spec.md section 1); this interface is the seam
// a host transport's concrete segment type is adapted through.
//
// Retain/Release model the "cloned reference, payload not copied" retention
// spec.md section 4.2 describes: Retain returns a handle sharing the same
// underlying payload and bumps a refcount; Release drops it. A Segment
// handed to the engine by the transport (e.g. an incoming parity segment)
// is owned by the caller for the duration of the call and must not be
// mutated by the engine; internal/segref provides a refcounted arena
// that cmd/fecsim's fake segment is built on.
type Segment interface {
	// SeqStart is the sequence number of the first byte of this segment.
	SeqStart() uint32
	// SeqEnd is the sequence number one past the last byte of this
	// segment, including the FIN bit's own sequence slot if SegFIN is set
	// (i.e. SeqEnd - SeqStart may exceed the payload length by one).
	SeqEnd() uint32
	// Flags reports which of SegSYN, SegFIN, SegRST, SegACK are set.
	Flags() SegFlags
	// Payload makes the segment's data byte-addressable and returns it.
	// Implementations that already hold contiguous bytes return them
	// directly; others may need to linearize (e.g. from a scatter-gather
	// buffer chain), which is where ErrLinearization originates.
	Payload() ([]byte, error)
	// Retain returns a new reference to the same underlying segment data,
	// safe to hold past the lifetime of the call that produced it.
	Retain() Segment
	// Release drops a reference obtained from Retain or from the
	// transport when handing the segment to the engine.
	Release()
}

// dataRange returns the sequence range a segment's *data* bytes occupy,
// excluding the FIN's own sequence slot (spec.md section 4.3's "a segment
// whose end-sequence includes a FIN contributes end_seq-1 worth of payload
// bytes").
func dataRange(seg Segment) (start, end uint32) {
	start = seg.SeqStart()
	end = seg.SeqEnd()
	if seg.Flags().Has(SegFIN) && seqGreater(end, start) {
		end--
	}
	return start, end
}

// SACKBlock is one contiguous selectively-acknowledged range, as read from
// the host transport's current SACK state.
type SACKBlock struct {
	Start, End uint32
}

// byteSource is satisfied by both the reference window and the
// out-of-order queue: something the decode engine can ask for up to
// maxBytes contiguous payload bytes starting at seq.
type byteSource interface {
	IterateFrom(seq uint32, maxBytes uint32, sink func([]byte)) (delivered uint32, err error)
}

// OOOQueue is the host transport's out-of-order reassembly queue, exposed
// read-only. It has the same shape as the reference window's IterateFrom
// because the decode engine walks both with identical logic (spec.md
// section 4.3: "read further blocks from the out-of-order queue").
type OOOQueue interface {
	byteSource
}

// RetransmitQueue is the slice of the host transport's send-side state the
// ACK-reaction component needs: the ability to mark segments lost and to
// nudge the retransmit-hint / retransmit_high bookkeeping (spec.md section
// 4.5).
type RetransmitQueue interface {
	// MarkLost marks every unacked, not-yet-SACKed segment whose sequence
	// range lies entirely within [seq, seq+length) as LOST, unless it is
	// already SACKed or LOST. It returns the number of segments newly
	// marked.
	MarkLost(seq, length uint32) (marked int)
	// SetRetransmitHint moves the retransmit-hint pointer to seq if seq
	// precedes the current hint (spec.md: "to the earliest newly-lost
	// segment").
	SetRetransmitHint(seq uint32)
	// RaiseRetransmitHigh raises retransmit_high to at least seq.
	RaiseRetransmitHigh(seq uint32)
}

// TransportContext is the capability set the host transport hands to every
// engine entry point -- the "explicit TransportContext capability set"
// spec.md section 9's Design Notes call for, in place of ambient globals.
type TransportContext interface {
	// RcvNext is the connection's current in-order receive sequence
	// counter (rcv_nxt).
	RcvNext() uint32
	// OutOfOrder exposes the out-of-order reassembly queue for read-only
	// iteration.
	OutOfOrder() OOOQueue
	// SACKBlocks returns the current selective-ACK ranges, most specific
	// first or in any order; callers treat it as a read-only set.
	SACKBlocks() []SACKBlock
	// Retransmit exposes the write queue's loss-marking operations.
	Retransmit() RetransmitQueue

	// SSThresh invokes the current congestion-control module's threshold
	// callback. The engine must not assume a specific algorithm.
	SSThresh() uint32
	// Cwnd returns the current congestion window.
	Cwnd() uint32
	// SetCwnd sets the congestion window.
	SetCwnd(uint32)
	// SndNext is the next sequence number this side will send (snd_nxt).
	SndNext() uint32
	// HighSeq / SetHighSeq gate further cwnd reductions to one per
	// recovery episode (spec.md section 4.5 and section 4.6).
	HighSeq() uint32
	SetHighSeq(uint32)
	// InCongestionRecovery reports whether the connection's congestion
	// state machine already considers itself in a recovery state.
	InCongestionRecovery() bool
	// DisableUndo marks the current congestion-window reduction as
	// non-undoable.
	DisableUndo()

	// CloneForSynthesis clones a parity segment's headers (addressing,
	// timestamps, option layout) so the synthesizer can rewrite them into
	// a synthetic recovered segment without mutating the original.
	CloneForSynthesis(parity Segment) Segment
	// SubmitInOrder hands a segment to the transport's established-state
	// receive entry point, as if it had just arrived off the wire.
	SubmitInOrder(seg Segment)
	// RequestImmediateACK asks the transport to emit an ACK now rather
	// than waiting for the delayed-ACK timer.
	RequestImmediateACK()
}
