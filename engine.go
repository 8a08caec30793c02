// Copyright (c) 2024 Nexthop Labs, Inc.
// See LICENSE for copying information.

package fec

// HandleIncoming implements the data flow spec.md section 2 describes:
// "incoming segment -> option decode -> [if ENCODED] decode engine ->
// (window u OOO queue) -> recovered block -> synthesizer -> transport
// in-order path -> ACK". It is the single entry point the host
// transport's receive path calls for every incoming segment once FEC is
// enabled on the connection (the negotiated coding type is st.Type; if
// st.Type is CodingNone this is a no-op and the caller should route the
// segment normally; cfg supplies the MaxConsecutiveDecodeFailures policy).
//
// optBytes is nil (or empty) when the transport's own option scanner
// found no experimental option on this segment at all -- an entirely
// ordinary segment, not an error. seg is the incoming segment itself,
// already validated by the transport's own checksum/header checks.
func HandleIncoming(st *State, tc TransportContext, cfg Config, seg Segment, optBytes []byte) {
	if st == nil || st.Type == CodingNone {
		return
	}

	var opt ParsedOption
	if len(optBytes) > 0 {
		parsed, err := DecodeOption(optBytes)
		switch {
		case err == ErrShortOption:
			// The transport handed us option bytes for this connection but
			// they were too short to examine: treat as
			// MissingOptionOnEncodedClaim rather than a structurally
			// malformed option (spec.md section 7).
			handleOptionError(st, ErrMissingOption)
			return
		case err != nil:
			handleOptionError(st, err)
			return
		}
		opt = parsed
	}

	if !opt.Flags.Has(OptEncoded) {
		return
	}
	if opt.EncLen == 0 {
		handleOptionError(st, ErrMalformedOption)
		return
	}
	if st.Type != CodingXORAll && st.Type != CodingXORSkip1 {
		handleOptionError(st, ErrUnknownCoding)
		return
	}

	result, spans, err := Decode(st, tc, opt, seg)
	if err != nil {
		disp := DispositionFor(err)
		if disp == DispositionDisable {
			Disable(st)
		}
		noteDecodeFailure(st, cfg)
		return
	}
	resetDecodeFailures(st)

	switch result {
	case ResultNoLoss:
		return
	case ResultRecovered:
		for _, span := range spans {
			Synthesize(st, tc, seg, span)
		}
	case ResultUnrecovered:
		OnDecodeResult(st, tc, result, opt.EncSeq, opt.EncLen)
	}
}

// handleOptionError applies the drop/log disposition for the option
// errors HandleIncoming can encounter before ever reaching Decode
// (spec.md section 7: MissingOptionOnEncodedClaim, UnknownCodingType,
// and malformed options). Only ErrMissingOption is logged.
func handleOptionError(st *State, err error) {
	st.Stats.DroppedBadOption++
	if err == ErrMissingOption && st.log != nil {
		st.log.warnMissingOption(0, 0)
	}
}

// OnInOrderDelivery implements the retention half of spec.md section
// 4.2/5: called exactly once per in-order data segment, in sequence
// order, at the moment it transitions to delivered -- including once per
// segment in a burst drained by an out-of-order arrival, each call
// completing before rcv_nxt advances for the next one.
func OnInOrderDelivery(st *State, seg Segment) {
	if st == nil || st.Type == CodingNone || st.Window == nil {
		return
	}
	st.Window.Retain(seg)
}

// OnAccept implements the accept-side half of spec.md section 4.6's
// inheritance rule, wired at the point the host transport promotes a
// pending connection out of its listen queue.
func OnAccept(tc TransportContext, listenerType CodingType, administrativelyDisabled bool, cfg Config, base Logger) *State {
	return InheritFromListener(tc, listenerType, administrativelyDisabled, cfg, base)
}

// OnMemoryPressure implements spec.md section 7's MemoryPressurePrune:
// the transport calls this when it prunes its own receive buffers, and
// FEC drops its retained references rather than exempt itself from the
// prune.
func OnMemoryPressure(st *State) {
	Disable(st)
}
