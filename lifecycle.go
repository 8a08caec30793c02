// Copyright (c) 2024 Nexthop Labs, Inc.
// See LICENSE for copying information.

package fec

import (
	"time"

	"golang.org/x/time/rate"
)

// Enable implements spec.md section 4.6: during connection establishment,
// copy the negotiated coding type into the connection's FEC state and
// initialize an empty window bounded by cfg.RcvQueueLimit.
func Enable(st *State, typ CodingType, cfg Config, base Logger) *State {
	if st == nil {
		st = &State{}
	}
	st.Type = typ
	st.Window = NewReferenceWindow(cfg.RcvQueueLimit)
	st.Flags = 0
	st.LostLen = 0
	st.consecutiveDecodeFailures = 0
	st.log = newConnLogger(base)
	if d, err := time.ParseDuration(cfg.MissingOptionLogInterval); err == nil && d > 0 {
		st.log.limiter.SetLimit(rate.Every(d))
	}
	return st
}

// Disable implements spec.md section 4.6: turn FEC off and release every
// retained reference. It is safe to call unconditionally, including on
// an already-disabled connection, and is the implicit reaction to
// MemoryPressurePrune (spec.md section 7).
func Disable(st *State) {
	if st == nil || st.Type == CodingNone {
		return
	}
	st.Type = CodingNone
	if st.Window != nil {
		st.Window.Purge()
	}
	st.Flags = 0
	st.LostLen = 0
	st.consecutiveDecodeFailures = 0
}

// InheritFromListener implements spec.md section 4.6's inheritance-on-accept:
// a child connection inherits the parent listener's coding type unless
// administrativelyDisabled says otherwise. high_seq is initialized to
// sndNext (via tc) so the first RECOVERY_SUCCESSFUL from this connection
// triggers exactly one window reduction rather than being mistaken for a
// duplicate of an episode that never happened.
func InheritFromListener(tc TransportContext, listenerType CodingType, administrativelyDisabled bool, cfg Config, base Logger) *State {
	typ := listenerType
	if administrativelyDisabled {
		typ = CodingNone
	}
	st := Enable(nil, typ, cfg, base)
	tc.SetHighSeq(tc.SndNext())
	return st
}

// noteDecodeFailure implements the MaxConsecutiveDecodeFailures policy
// (spec.md section 9's open question on -ENOMEM: "recommend
// disable-on-repeat to avoid silent degradation"). It should be called
// after every AllocationFailure/LinearizationFailure and cleared after
// any successful (non-error) decode outcome.
func noteDecodeFailure(st *State, cfg Config) {
	st.consecutiveDecodeFailures++
	st.Stats.ConsecutiveResets++
	if cfg.MaxConsecutiveDecodeFailures > 0 && st.consecutiveDecodeFailures >= cfg.MaxConsecutiveDecodeFailures {
		Disable(st)
	}
}

func resetDecodeFailures(st *State) {
	st.consecutiveDecodeFailures = 0
}
