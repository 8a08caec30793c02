// Copyright (c) 2024 Nexthop Labs, Inc.
// See LICENSE for copying information.

package main

import (
	"fmt"

	fec "github.com/nexthop-labs/tcpfec"
	"github.com/nexthop-labs/tcpfec/internal/segref"
)

// fakeSegment adapts an internal/segref.Record into a fec.Segment for
// the simulation CLI, playing the same role a host transport's real
// segment type would in production.
type fakeSegment struct {
	rec      *segref.Record
	seqStart uint32
	seqEnd   uint32
	flags    fec.SegFlags
}

func newFakeSegment(seq uint32, payload []byte, flags fec.SegFlags) *fakeSegment {
	return &fakeSegment{
		rec:      arena.Clone(payload),
		seqStart: seq,
		seqEnd:   seq + uint32(len(payload)),
		flags:    flags,
	}
}

func (s *fakeSegment) SeqStart() uint32          { return s.seqStart }
func (s *fakeSegment) SeqEnd() uint32            { return s.seqEnd }
func (s *fakeSegment) Flags() fec.SegFlags       { return s.flags }
func (s *fakeSegment) Payload() ([]byte, error)  { return s.rec.Payload(), nil }
func (s *fakeSegment) Retain() fec.Segment {
	return &fakeSegment{rec: s.rec.Retain(), seqStart: s.seqStart, seqEnd: s.seqEnd, flags: s.flags}
}
func (s *fakeSegment) Release() { s.rec.Release() }

// fakeQueue is a slice-backed fec.OOOQueue stand-in for the out-of-order
// queue; scenarios fill it directly so they can place segments precisely.
type fakeQueue struct {
	segs []fec.Segment
}

func (q *fakeQueue) IterateFrom(seq uint32, maxBytes uint32, sink func([]byte)) (uint32, error) {
	var delivered uint32
	next := seq
	for _, seg := range q.segs {
		if maxBytes > 0 && delivered >= maxBytes {
			break
		}
		start, end := seg.SeqStart(), seg.SeqEnd()
		if seg.Flags().Has(fec.SegFIN) && end > start {
			end--
		}
		if end <= next || start > next {
			continue
		}
		payload, _ := seg.Payload()
		offset := next - start
		avail := payload[offset:]
		want := maxBytes - delivered
		if maxBytes == 0 || uint32(len(avail)) < want {
			want = uint32(len(avail))
		}
		sink(avail[:want])
		delivered += want
		next += want
	}
	return delivered, nil
}

type fakeTransportContext struct {
	rcvNext uint32
	ooo     *fakeQueue
	sacks   []fec.SACKBlock
	sndNext uint32
	highSeq uint32
}

func (tc *fakeTransportContext) RcvNext() uint32           { return tc.rcvNext }
func (tc *fakeTransportContext) OutOfOrder() fec.OOOQueue  { return tc.ooo }
func (tc *fakeTransportContext) SACKBlocks() []fec.SACKBlock { return tc.sacks }
func (tc *fakeTransportContext) Retransmit() fec.RetransmitQueue { return noopRetransmit{} }
func (tc *fakeTransportContext) SSThresh() uint32          { return 10 }
func (tc *fakeTransportContext) Cwnd() uint32              { return 20 }
func (tc *fakeTransportContext) SetCwnd(uint32)            {}
func (tc *fakeTransportContext) SndNext() uint32           { return tc.sndNext }
func (tc *fakeTransportContext) HighSeq() uint32           { return tc.highSeq }
func (tc *fakeTransportContext) SetHighSeq(v uint32)       { tc.highSeq = v }
func (tc *fakeTransportContext) InCongestionRecovery() bool { return false }
func (tc *fakeTransportContext) DisableUndo()              {}
func (tc *fakeTransportContext) CloneForSynthesis(parity fec.Segment) fec.Segment {
	payload, _ := parity.Payload()
	return newFakeSegment(parity.SeqStart(), payload, 0)
}
func (tc *fakeTransportContext) SubmitInOrder(fec.Segment) {}
func (tc *fakeTransportContext) RequestImmediateACK()      {}

type noopRetransmit struct{}

func (noopRetransmit) MarkLost(uint32, uint32) int      { return 0 }
func (noopRetransmit) SetRetransmitHint(uint32)         {}
func (noopRetransmit) RaiseRetransmitHigh(uint32)       {}

func xorBytes(a, b []byte) []byte {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make([]byte, n)
	copy(out, a)
	for i, c := range b {
		out[i] ^= c
	}
	return out
}

func codingFor(override string, def fec.CodingType) (fec.CodingType, error) {
	switch override {
	case "":
		return def, nil
	case "xor_all":
		return fec.CodingXORAll, nil
	case "xor_skip_1":
		return fec.CodingXORSkip1, nil
	default:
		return fec.CodingNone, fmt.Errorf("unknown coding override %q", override)
	}
}

func buildScenario(name, codingOverride string, log fec.Logger) (*simulation, error) {
	cfg := fec.DefaultConfig()

	switch name {
	case "no-loss", "recover-one":
		s1 := []byte("abcd")
		s2 := []byte("efgh")
		parityPayload := xorBytes(s1, s2)

		coding, err := codingFor(codingOverride, fec.CodingXORAll)
		if err != nil {
			return nil, err
		}
		st := fec.Enable(nil, coding, cfg, log)
		window := st.Window
		seg1 := newFakeSegment(0, s1, 0)
		window.Retain(seg1)

		ooo := &fakeQueue{}
		rcvNext := uint32(4)
		if name == "no-loss" {
			seg2 := newFakeSegment(4, s2, 0)
			window.Retain(seg2)
			rcvNext = 8
		} else {
			ooo.segs = nil // S2 is genuinely lost, nothing to add
		}

		tc := &fakeTransportContext{rcvNext: rcvNext, ooo: ooo}
		parity := newFakeSegment(0, parityPayload, 0)
		opt := fec.ParsedOption{SawFEC: true, Flags: 1, EncSeq: 0, EncLen: 8}
		return &simulation{state: st, tc: tc, opt: opt, parity: parity}, nil

	case "recover-skip1":
		s1 := []byte("abcd")
		s3 := []byte("mnop")
		parityPayload := xorBytes(s1, s3)

		coding, err := codingFor(codingOverride, fec.CodingXORSkip1)
		if err != nil {
			return nil, err
		}
		st := fec.Enable(nil, coding, cfg, log)
		st.Window.Retain(newFakeSegment(0, s1, 0))

		tc := &fakeTransportContext{rcvNext: 4, ooo: &fakeQueue{}}
		parity := newFakeSegment(0, parityPayload, 0)
		opt := fec.ParsedOption{SawFEC: true, Flags: 1, EncSeq: 0, EncLen: 12}
		return &simulation{state: st, tc: tc, opt: opt, parity: parity}, nil

	case "two-missing":
		s1 := []byte("abcd")
		parityPayload := make([]byte, 4)
		copy(parityPayload, s1)

		coding, err := codingFor(codingOverride, fec.CodingXORAll)
		if err != nil {
			return nil, err
		}
		st := fec.Enable(nil, coding, cfg, log)
		st.Window.Retain(newFakeSegment(0, s1, 0))

		tc := &fakeTransportContext{rcvNext: 4, ooo: &fakeQueue{}}
		parity := newFakeSegment(0, parityPayload, 0)
		opt := fec.ParsedOption{SawFEC: true, Flags: 1, EncSeq: 0, EncLen: 12}
		return &simulation{state: st, tc: tc, opt: opt, parity: parity}, nil

	case "sacked-tail":
		s2 := []byte("efgh")
		s1 := []byte("abcd")
		parityPayload := xorBytes(s1, s2)

		coding, err := codingFor(codingOverride, fec.CodingXORAll)
		if err != nil {
			return nil, err
		}
		st := fec.Enable(nil, coding, cfg, log)
		ooo := &fakeQueue{segs: []fec.Segment{newFakeSegment(4, s2, 0)}}
		tc := &fakeTransportContext{rcvNext: 0, ooo: ooo, sacks: []fec.SACKBlock{{Start: 4, End: 8}}}
		parity := newFakeSegment(0, parityPayload, 0)
		opt := fec.ParsedOption{SawFEC: true, Flags: 1, EncSeq: 0, EncLen: 8}
		return &simulation{state: st, tc: tc, opt: opt, parity: parity}, nil

	default:
		return nil, fmt.Errorf("unknown scenario %q", name)
	}
}
