// Copyright (c) 2024 Nexthop Labs, Inc.
// See LICENSE for copying information.

package fec

import "github.com/nexthop-labs/tcpfec/internal/invariant"

// maxDecodeBlockSize bounds the accumulator Decode is willing to
// allocate for one episode. No real parity segment carries a payload
// anywhere near this large; a parity segment that does is either
// corrupted or adversarial, and the episode is abandoned rather than
// handing an attacker-controlled allocation size to make().
const maxDecodeBlockSize = 64 * 1024

// DecodeResult is the outcome of one decode episode (spec.md section
// 4.3).
type DecodeResult int

const (
	ResultNoLoss DecodeResult = iota
	ResultRecovered
	ResultUnrecovered
)

func (r DecodeResult) String() string {
	switch r {
	case ResultNoLoss:
		return "no_loss"
	case ResultRecovered:
		return "recovered"
	case ResultUnrecovered:
		return "unrecovered"
	default:
		return "unknown"
	}
}

// RecoveredSpan is one contiguous recovered byte range produced by a
// decode episode. XOR_SKIP_1 is specified as being able to straddle two
// disjoint ranges (spec.md section 4.3); in this implementation the
// accumulator XORs every present block into one shared buffer regardless
// of scheme, so at most one MSS-aligned block can ever be the recovery
// target and Decode never actually needs to emit more than one span --
// see DESIGN.md's note on the XOR_SKIP_1 open question. The two-element
// case is kept in the type so a future sender-side layout that truly
// splits a block across two ranges doesn't require an API change.
type RecoveredSpan struct {
	Seq     uint32
	Payload []byte
}

// Decode runs the XOR recovery kernel for one incoming parity segment
// (spec.md section 4.3). st is the connection's FEC state; opt is the
// already-validated parsed option with OptEncoded set; parity is the
// segment carrying the parity payload; tc supplies rcv_nxt and the
// out-of-order queue.
//
// Decode never blocks and never retains parity or any block it reads
// (spec.md section 5); the returned spans' payloads are slices of the
// accumulator Decode allocates for this episode, not window/OOO storage.
func Decode(st *State, tc TransportContext, opt ParsedOption, parity Segment) (DecodeResult, []RecoveredSpan, error) {
	rcvNext := tc.RcvNext()
	encEnd := opt.EncSeq + opt.EncLen

	if seqLessEqual(encEnd, rcvNext) {
		st.Stats.EpisodesNoLoss++
		return ResultNoLoss, nil, nil
	}

	payload, err := parity.Payload()
	if err != nil {
		return ResultUnrecovered, nil, ErrLinearization
	}
	if len(payload) == 0 {
		return ResultUnrecovered, nil, ErrLinearization
	}

	blockSize := uint32(len(payload))
	if blockSize > maxDecodeBlockSize {
		return ResultUnrecovered, nil, ErrAllocationFailure
	}
	acc := make([]byte, blockSize)
	copy(acc, payload)

	skip := uint32(0)
	if st.Type == CodingXORSkip1 {
		skip = blockSize
	}

	next := opt.EncSeq
	source := byteSource(st.Window)

	var missingSeq uint32
	var haveMissing bool
	shortReads := 0

	for seqLess(next, encEnd) {
		want := blockSize
		if remaining := encEnd - next; remaining < want {
			want = remaining
		}

		n, err := readBlock(source, next, want, acc)
		if err != nil {
			return ResultUnrecovered, nil, err
		}

		if n < want {
			shortReads++
			if shortReads > 1 {
				st.Stats.EpisodesFailed++
				st.Stats.BytesLostUnrecov += uint64(want)
				return ResultUnrecovered, nil, nil
			}
			missingSeq = next
			haveMissing = true
			// The window can never supply anything past rcv_nxt; once we
			// hit the first gap, every subsequent block read (whether at
			// this position or later in the episode) must come from the
			// OOO queue instead.
			source = tc.OutOfOrder()
		}

		next += want
		if skip != 0 && seqLess(next, encEnd) {
			next += skip
			if seqGreater(next, encEnd) {
				next = encEnd
			}
		}
	}

	invariant.Check(next == encEnd, "decode episode must consume exactly the encoded range")

	if !haveMissing {
		st.Stats.EpisodesNoLoss++
		return ResultNoLoss, nil, nil
	}

	recLen := blockSize
	if remaining := encEnd - missingSeq; remaining < recLen {
		recLen = remaining
	}
	st.Stats.EpisodesRecovered++
	st.Stats.BytesRecovered += uint64(recLen)

	return ResultRecovered, []RecoveredSpan{{Seq: missingSeq, Payload: acc[:recLen]}}, nil
}

// readBlock reads up to want bytes at seq from src and XORs whatever it
// gets into acc[0:want]; a short read leaves acc's tail un-XORed, which
// is correct because that tail is exactly the missing block's undecoded
// content the caller is trying to recover.
func readBlock(src byteSource, seq uint32, want uint32, acc []byte) (uint32, error) {
	var n uint32
	err := func() error {
		delivered, err := src.IterateFrom(seq, want, func(chunk []byte) {
			xorInto(acc[n:n+uint32(len(chunk))], chunk)
			n += uint32(len(chunk))
		})
		if err != nil {
			return err
		}
		_ = delivered
		return nil
	}()
	if err != nil {
		return n, ErrLinearization
	}
	return n, nil
}
