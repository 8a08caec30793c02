// Copyright (c) 2024 Nexthop Labs, Inc.
// See LICENSE for copying information.

package fec_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	fec "github.com/nexthop-labs/tcpfec"
)

func TestDecodeScenarios(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "decode engine scenarios")
}

// scenarioSegment is a minimal fec.Segment for these end-to-end
// scenarios, distinct from the package-internal testSegment used by
// window_test.go and the other in-package tests, since ginkgo specs live in the fec_test
// package to exercise the engine only through its exported surface.
type scenarioSegment struct {
	seq     uint32
	payload []byte
	flags   fec.SegFlags
}

func (s *scenarioSegment) SeqStart() uint32          { return s.seq }
func (s *scenarioSegment) SeqEnd() uint32            { return s.seq + uint32(len(s.payload)) }
func (s *scenarioSegment) Flags() fec.SegFlags       { return s.flags }
func (s *scenarioSegment) Payload() ([]byte, error)  { return s.payload, nil }
func (s *scenarioSegment) Retain() fec.Segment       { return s }
func (s *scenarioSegment) Release()                  {}

type scenarioQueue struct {
	segs []fec.Segment
}

func (q *scenarioQueue) IterateFrom(seq uint32, maxBytes uint32, sink func([]byte)) (uint32, error) {
	var delivered uint32
	next := seq
	for _, seg := range q.segs {
		if maxBytes > 0 && delivered >= maxBytes {
			break
		}
		start, end := seg.SeqStart(), seg.SeqEnd()
		if end <= next || start > next {
			continue
		}
		payload, _ := seg.Payload()
		avail := payload[next-start:]
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

type scenarioTC struct {
	rcvNext uint32
	ooo     *scenarioQueue
	sacks   []fec.SACKBlock
	sndNext uint32
	highSeq uint32
	submitted []fec.Segment
}

func (tc *scenarioTC) RcvNext() uint32              { return tc.rcvNext }
func (tc *scenarioTC) OutOfOrder() fec.OOOQueue      { return tc.ooo }
func (tc *scenarioTC) SACKBlocks() []fec.SACKBlock   { return tc.sacks }
func (tc *scenarioTC) Retransmit() fec.RetransmitQueue { return scenarioRetransmit{} }
func (tc *scenarioTC) SSThresh() uint32             { return 10 }
func (tc *scenarioTC) Cwnd() uint32                 { return 40 }
func (tc *scenarioTC) SetCwnd(uint32)               {}
func (tc *scenarioTC) SndNext() uint32              { return tc.sndNext }
func (tc *scenarioTC) HighSeq() uint32              { return tc.highSeq }
func (tc *scenarioTC) SetHighSeq(v uint32)          { tc.highSeq = v }
func (tc *scenarioTC) InCongestionRecovery() bool   { return false }
func (tc *scenarioTC) DisableUndo()                 {}
func (tc *scenarioTC) CloneForSynthesis(parity fec.Segment) fec.Segment {
	payload, _ := parity.Payload()
	clone := make([]byte, len(payload))
	copy(clone, payload)
	return &scenarioSegment{seq: parity.SeqStart(), payload: clone}
}
func (tc *scenarioTC) SubmitInOrder(seg fec.Segment) { tc.submitted = append(tc.submitted, seg) }
func (tc *scenarioTC) RequestImmediateACK()          {}

type scenarioRetransmit struct{}

func (scenarioRetransmit) MarkLost(uint32, uint32) int { return 0 }
func (scenarioRetransmit) SetRetransmitHint(uint32)    {}
func (scenarioRetransmit) RaiseRetransmitHigh(uint32)  {}

func xorStrings(a, b string) []byte {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make([]byte, n)
	copy(out, a)
	for i := 0; i < len(b); i++ {
		out[i] ^= b[i]
	}
	return out
}

var _ = Describe("decode engine", func() {
	var cfg fec.Config

	BeforeEach(func() {
		cfg = fec.DefaultConfig()
	})

	It("returns NO_LOSS when both segments already arrived (scenario 1)", func() {
		st := fec.Enable(nil, fec.CodingXORAll, cfg, fec.NoopLogger())
		st.Window.Retain(&scenarioSegment{seq: 0, payload: []byte("abcd")})
		st.Window.Retain(&scenarioSegment{seq: 4, payload: []byte("efgh")})

		tc := &scenarioTC{rcvNext: 8, ooo: &scenarioQueue{}}
		parity := &scenarioSegment{seq: 0, payload: xorStrings("abcd", "efgh")}
		opt := fec.ParsedOption{SawFEC: true, Flags: fec.OptEncoded, EncSeq: 0, EncLen: 8}

		result, spans, err := fec.Decode(st, tc, opt, parity)
		Expect(err).NotTo(HaveOccurred())
		Expect(result).To(Equal(fec.ResultNoLoss))
		Expect(spans).To(BeEmpty())
	})

	It("recovers a missing segment under the contiguous scheme (scenario 2)", func() {
		st := fec.Enable(nil, fec.CodingXORAll, cfg, fec.NoopLogger())
		st.Window.Retain(&scenarioSegment{seq: 0, payload: []byte("abcd")})

		tc := &scenarioTC{rcvNext: 4, ooo: &scenarioQueue{}}
		parity := &scenarioSegment{seq: 0, payload: xorStrings("abcd", "efgh")}
		opt := fec.ParsedOption{SawFEC: true, Flags: fec.OptEncoded, EncSeq: 0, EncLen: 8}

		result, spans, err := fec.Decode(st, tc, opt, parity)
		Expect(err).NotTo(HaveOccurred())
		Expect(result).To(Equal(fec.ResultRecovered))

		want := []fec.RecoveredSpan{{Seq: 4, Payload: []byte("efgh")}}
		Expect(cmp.Diff(want, spans)).To(BeEmpty())

		synth := fec.Synthesize(st, tc, parity, spans[0])
		Expect(synth).NotTo(BeNil())
		Expect(tc.submitted).To(HaveLen(1))
		Expect(st.Flags.Has(fec.FlagRecoverySuccessful)).To(BeTrue())
	})

	It("recovers a missing segment under XOR_SKIP_1 (scenario 3)", func() {
		st := fec.Enable(nil, fec.CodingXORSkip1, cfg, fec.NoopLogger())
		st.Window.Retain(&scenarioSegment{seq: 0, payload: []byte("abcd")})
		// S2=[4,8) is the skipped, unencoded block: never delivered to the
		// window or OOO queue at all, and decoding must not need it.

		tc := &scenarioTC{rcvNext: 4, ooo: &scenarioQueue{}}
		parity := &scenarioSegment{seq: 0, payload: xorStrings("abcd", "mnop")}
		opt := fec.ParsedOption{SawFEC: true, Flags: fec.OptEncoded, EncSeq: 0, EncLen: 12}

		result, spans, err := fec.Decode(st, tc, opt, parity)
		Expect(err).NotTo(HaveOccurred())
		Expect(result).To(Equal(fec.ResultRecovered))

		want := []fec.RecoveredSpan{{Seq: 8, Payload: []byte("mnop")}}
		Expect(cmp.Diff(want, spans)).To(BeEmpty())
	})

	It("fails when two blocks are missing (scenario 4)", func() {
		st := fec.Enable(nil, fec.CodingXORAll, cfg, fec.NoopLogger())
		st.Window.Retain(&scenarioSegment{seq: 0, payload: []byte("abcd")})

		tc := &scenarioTC{rcvNext: 4, ooo: &scenarioQueue{}}
		parity := &scenarioSegment{seq: 0, payload: make([]byte, 4)}
		copy(parity.payload, "abcd")
		opt := fec.ParsedOption{SawFEC: true, Flags: fec.OptEncoded, EncSeq: 0, EncLen: 12}

		result, spans, err := fec.Decode(st, tc, opt, parity)
		Expect(err).NotTo(HaveOccurred())
		Expect(result).To(Equal(fec.ResultUnrecovered))
		Expect(spans).To(BeEmpty())

		fec.OnDecodeResult(st, tc, result, opt.EncSeq, opt.EncLen)
		Expect(st.Flags.Has(fec.FlagRecoveryFailed)).To(BeTrue())
		Expect(st.LostLen).To(BeEquivalentTo(opt.EncSeq + opt.EncLen - tc.RcvNext()))
	})

	It("emits the full recovered segment when the SACKed block lies outside it (scenario 5)", func() {
		st := fec.Enable(nil, fec.CodingXORAll, cfg, fec.NoopLogger())
		// S1=[0,4) is what's actually missing and will be recovered; S2 has
		// arrived out of order and is already SACKed.
		ooo := &scenarioQueue{segs: []fec.Segment{&scenarioSegment{seq: 4, payload: []byte("efgh")}}}
		tc := &scenarioTC{rcvNext: 0, ooo: ooo, sacks: []fec.SACKBlock{{Start: 4, End: 8}}}
		parity := &scenarioSegment{seq: 0, payload: xorStrings("abcd", "efgh")}
		opt := fec.ParsedOption{SawFEC: true, Flags: fec.OptEncoded, EncSeq: 0, EncLen: 8}

		result, spans, err := fec.Decode(st, tc, opt, parity)
		Expect(err).NotTo(HaveOccurred())
		Expect(result).To(Equal(fec.ResultRecovered))
		Expect(spans[0].Seq).To(BeEquivalentTo(0))
		Expect(string(spans[0].Payload)).To(Equal("abcd"))

		synth := fec.Synthesize(st, tc, parity, spans[0])
		Expect(synth).NotTo(BeNil())
		Expect(synth.SeqStart()).To(BeEquivalentTo(0))
		Expect(synth.SeqEnd()).To(BeEquivalentTo(4))
	})
})
