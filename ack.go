// Copyright (c) 2024 Nexthop Labs, Inc.
// See LICENSE for copying information.

package fec

// AckReaction reports what OnIncomingAck observed, so the caller (the
// transport's ACK-processing path) knows whether it needs to fold a loss
// indicator into its own return value (spec.md section 4.5: "Return
// 'loss indicator present'").
type AckReaction struct {
	LossIndicator bool
}

// OnIncomingAck implements spec.md section 4.5's incoming-ACK reaction,
// invoked from the transport's ACK-processing path before SACK
// processing. peerFlags are the FEC flags observed on the incoming ACK's
// option; lostSeq/lostLen are only meaningful when peerFlags carries
// OptRecoveryFailed; ack is the ACK's acknowledged sequence number.
func OnIncomingAck(st *State, tc TransportContext, peerFlags OptFlags, ack, lostSeq, lostLen uint32) AckReaction {
	var reaction AckReaction

	if peerFlags.Has(OptRecoveryCWR) {
		st.Flags &^= FlagRecoverySuccessful
		// Any pending ECN-CWR demand belongs to the host transport's own
		// congestion state, not FEC state; the caller is expected to clear
		// it alongside acting on this reaction.
	}

	if peerFlags.Has(OptRecoveryFailed) {
		markLost(tc, lostSeq, lostLen)
		reaction.LossIndicator = true
	}

	if peerFlags.Has(OptRecoverySuccessful) && seqGreater(ack, tc.HighSeq()) && !st.Flags.Has(FlagRecoveryCWR) {
		if tc.InCongestionRecovery() {
			tc.DisableUndo()
			return AckReaction{LossIndicator: true}
		}
		ssthresh := tc.SSThresh()
		tc.SetCwnd(seqMinCwnd(tc.Cwnd(), ssthresh))
		tc.SetHighSeq(tc.SndNext())
		tc.DisableUndo()
		st.Flags |= FlagRecoveryCWR
		reaction.LossIndicator = true
	}

	return reaction
}

// seqMinCwnd is min() for the plain (non-wraparound) uint32 space cwnd
// and ssthresh live in -- unlike sequence numbers, these are small
// window sizes, never within range of wrapping.
func seqMinCwnd(a, b uint32) uint32 {
	if a < b {
		return a
	}
	return b
}

// markLost implements spec.md section 4.5's RECOVERY_FAILED handling:
// mark every unacked, not-yet-SACKed segment fully inside
// [lostSeq, lostSeq+lostLen) as LOST, update the retransmit-hint pointer
// to the earliest newly-lost segment, and raise retransmit_high to cover
// the tail.
func markLost(tc TransportContext, lostSeq, lostLen uint32) {
	rq := tc.Retransmit()
	if lostLen == 0 {
		return
	}
	marked := rq.MarkLost(lostSeq, lostLen)
	if marked > 0 {
		// lostSeq approximates the earliest newly-lost segment: MarkLost
		// only marks segments that are unacked and not already SACKed or
		// LOST, so the true earliest newly-lost segment could start later
		// than lostSeq. The retransmit queue owns precise hint bookkeeping
		// host-side, so this is an acceptable approximation here.
		rq.SetRetransmitHint(lostSeq)
	}
	rq.RaiseRetransmitHigh(lostSeq + lostLen)
}

// OnDecodeResult implements spec.md section 4.5's outgoing-ACK demand:
// when the decode engine returns LOSS_UNRECOVERED, arm RECOVERY_FAILED
// with the tail-loss byte count and request an immediate ACK. NO_LOSS
// and LOSS_RECOVERED rely on implicit ACK generation from normal receive
// processing and are no-ops here.
func OnDecodeResult(st *State, tc TransportContext, result DecodeResult, encSeq, encLen uint32) {
	if result != ResultUnrecovered {
		return
	}
	st.Flags |= FlagRecoveryFailed
	st.LostLen = encSeq + encLen - tc.RcvNext()
	tc.RequestImmediateACK()
}
