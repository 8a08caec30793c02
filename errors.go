// Copyright (c) 2024 Nexthop Labs, Inc.
// See LICENSE for copying information.

package fec

import "errors"

// Sentinel errors returned by the decode engine and option decoder. Every
// one of these resolves, per the disposition table below, to either
// dropping the current segment, emitting a RECOVERY_FAILED ack, or
// disabling FEC on the connection -- the engine never surfaces an error
// across the TransportContext boundary.
var (
	// ErrAllocationFailure is returned when a decode episode's required
	// accumulator would exceed maxDecodeBlockSize -- a parity segment
	// whose payload length implies an allocation no real sender would
	// ever ask for. The episode is abandoned and the segment is left
	// unrecovered.
	ErrAllocationFailure = errors.New("fec: allocation failure")

	// ErrLinearization is returned when a segment's payload could not be
	// made byte-addressable. Treated the same as ErrAllocationFailure.
	ErrLinearization = errors.New("fec: payload linearization failure")

	// ErrMissingOption is returned when a segment was expected to carry an
	// FEC option (the caller believed ENCODED was set) but none was found.
	ErrMissingOption = errors.New("fec: encoded segment missing FEC option")

	// ErrUnknownCoding is returned for a coding type this engine does not
	// recognize. Treated as a protocol violation for the one segment.
	ErrUnknownCoding = errors.New("fec: unknown coding type")

	// ErrShortOption and ErrMalformedOption are returned by the option
	// decoder when the option bytes are too short or internally
	// inconsistent (e.g. a declared length that is neither the short nor
	// the long form, or ENCODED set with a zero encoded length).
	ErrShortOption     = errors.New("fec: FEC option shorter than its declared form")
	ErrMalformedOption = errors.New("fec: malformed FEC option")
)

// Disposition names how the engine reacts to a given error or decode
// outcome, per the error-handling design (spec.md section 7).
type Disposition int

const (
	// DispositionNone means no special reaction is required.
	DispositionNone Disposition = iota
	// DispositionDrop means the current segment is discarded.
	DispositionDrop
	// DispositionEmitFailure means an outgoing ACK with RECOVERY_FAILED
	// should be requested.
	DispositionEmitFailure
	// DispositionDisable means FEC should be disabled on the connection.
	DispositionDisable
)

// DispositionFor maps a decode/option error to its required disposition.
// AllocationFailure and LinearizationFailure are non-fatal and drop the
// segment; MissingOptionOnEncodedClaim drops and is logged once per
// connection (see log.go); UnknownCodingType drops as a protocol
// violation. Any other error also drops, conservatively.
func DispositionFor(err error) Disposition {
	switch {
	case err == nil:
		return DispositionNone
	case errors.Is(err, ErrAllocationFailure), errors.Is(err, ErrLinearization):
		return DispositionDrop
	case errors.Is(err, ErrMissingOption):
		return DispositionDrop
	case errors.Is(err, ErrUnknownCoding):
		return DispositionDrop
	default:
		return DispositionDrop
	}
}
