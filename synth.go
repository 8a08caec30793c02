// Copyright (c) 2024 Nexthop Labs, Inc.
// See LICENSE for copying information.

package fec

// synthOption is the byte-slice view of a segment's FEC option that
// Synthesize needs to rewrite in place. The host transport's segment
// implementation must expose its option bytes through this narrow seam
// so this package never assumes a specific option-area layout beyond the
// FEC option itself (spec.md section 9: "encapsulate this in a dedicated
// option-editor routine").
type synthOption interface {
	FECOption() []byte
}

// Synthesize implements spec.md section 4.4: given a recovered span, it
// trims the span against current SACK blocks, clones the parity
// segment's headers, rewrites its FEC option from long to short form,
// replaces its payload with the recovered bytes, and hands the result to
// the transport's in-order receive path.
//
// It returns the (possibly trimmed) synthetic segment, or nil if
// trimming reduced the span to nothing (spec.md step 1: "If rec_len <= 0,
// abort and return NO_LOSS").
func Synthesize(st *State, tc TransportContext, parity Segment, span RecoveredSpan) Segment {
	seq := span.Seq
	length := uint32(len(span.Payload))
	if length == 0 {
		return nil
	}

	end := seq + length
	for _, sack := range tc.SACKBlocks() {
		if seqLessEqual(sack.End, seq) || seqGreaterEqual(sack.Start, end) {
			continue // no overlap
		}
		if seqLessEqual(sack.Start, seq) {
			continue // recovered range starts inside an already-SACKed block: leave it to that path
		}
		// sack.Start falls strictly inside [seq, end): trim the tail that
		// duplicates it, per spec.md step 1.
		if seqLess(sack.Start, end) {
			end = sack.Start
		}
	}
	if seqLessEqual(end, seq) {
		return nil
	}
	length = end - seq
	payload := span.Payload[:length]

	synth := tc.CloneForSynthesis(parity)

	if opt, ok := synth.(synthOption); ok {
		if optBytes := opt.FECOption(); len(optBytes) >= optLongLen {
			_ = RewriteLongToShort(optBytes)
		}
	}

	recovered := withRecoveredPayload(synth, seq, end, payload)
	tc.SubmitInOrder(recovered)

	st.Flags |= FlagRecoverySuccessful
	return recovered
}

// recoveredSegment wraps a cloned parity segment so its sequence range
// and payload reflect the recovered bytes rather than the parity's own,
// per spec.md step 4 ("adjust sequence / ack-sequence / end-sequence
// fields"). The transport-specific Segment implementation supplies the
// clone via TransportContext.CloneForSynthesis; this wrapper only needs
// to override the three accessors the rest of the engine and the
// transport's in-order path read.
type recoveredSegment struct {
	Segment
	seqStart uint32
	seqEnd   uint32
	payload  []byte
}

func withRecoveredPayload(base Segment, start, end uint32, payload []byte) Segment {
	return &recoveredSegment{Segment: base, seqStart: start, seqEnd: end, payload: payload}
}

func (s *recoveredSegment) SeqStart() uint32 { return s.seqStart }
func (s *recoveredSegment) SeqEnd() uint32   { return s.seqEnd }

func (s *recoveredSegment) Payload() ([]byte, error) { return s.payload, nil }

// Flags reports no RST/SYN/FIN: a recovered segment carries pure data
// derived from already-validated bytes (spec.md step 4: "mark checksum
// as not-required").
func (s *recoveredSegment) Flags() SegFlags { return 0 }
