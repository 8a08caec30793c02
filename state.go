// Copyright (c) 2024 Nexthop Labs, Inc.
// See LICENSE for copying information.

package fec

// CodingType is the coding scheme in effect for a connection. NONE means
// FEC is disabled (spec.md section 3, invariant I4).
type CodingType int

const (
	CodingNone CodingType = iota
	CodingXORAll
	CodingXORSkip1
)

func (t CodingType) String() string {
	switch t {
	case CodingNone:
		return "none"
	case CodingXORAll:
		return "xor_all"
	case CodingXORSkip1:
		return "xor_skip_1"
	default:
		return "unknown"
	}
}

// ConnFlags is the bitset of outbound-pending / bookkeeping bits spec.md
// section 3 names on the connection FEC state.
type ConnFlags uint8

const (
	// FlagRecoverySuccessful means "tell peer we recovered": the next
	// outgoing FEC option should advertise RECOVERY_SUCCESSFUL.
	FlagRecoverySuccessful ConnFlags = 1 << iota
	// FlagRecoveryCWR means we have already echoed a peer's success and
	// reduced cwnd; while it is set, OnIncomingAck makes no further cwnd
	// reduction for a peer's RECOVERY_SUCCESSFUL. Only Enable and Disable
	// clear it.
	FlagRecoveryCWR
	// FlagRecoveryFailed means the next outgoing FEC option should
	// advertise RECOVERY_FAILED with LostLen.
	FlagRecoveryFailed
)

func (f ConnFlags) Has(bits ConnFlags) bool { return f&bits == bits }

// State is the per-connection FEC state (spec.md section 3). One State is
// owned by the connection; no field is ever shared across connections.
type State struct {
	Type    CodingType
	Flags   ConnFlags
	Window  *ReferenceWindow
	LostLen uint32

	// consecutiveDecodeFailures counts back-to-back AllocationFailure /
	// LinearizationFailure results, for the MaxConsecutiveDecodeFailures
	// policy (config.go, spec.md section 9 open question).
	consecutiveDecodeFailures int

	Stats Stats
	log   *connLogger
}

// Stats are per-connection decode counters, supplementing spec.md per
// section 10 of SPEC_FULL.md: observability only, never consulted to make
// protocol decisions.
type Stats struct {
	EpisodesNoLoss     uint64
	EpisodesRecovered  uint64
	EpisodesFailed     uint64
	BytesRecovered     uint64
	BytesLostUnrecov   uint64
	DroppedBadOption   uint64
	ConsecutiveResets  uint64
}

// ParsedOption is the transient, per-segment parsed FEC option (spec.md
// section 3).
type ParsedOption struct {
	SawFEC bool
	Flags  OptFlags

	EncSeq uint32
	EncLen uint32

	LostSeq uint32
	LostLen uint32
}

// OptFlags are the wire-level FEC option flag bits (spec.md section 6).
type OptFlags uint8

const (
	OptEncoded OptFlags = 1 << iota
	OptRecoverySuccessful
	OptRecoveryCWR
	OptRecoveryFailed
)

func (f OptFlags) Has(bits OptFlags) bool { return f&bits == bits }
func (f OptFlags) Any(bits OptFlags) bool { return f&bits != 0 }
