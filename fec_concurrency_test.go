// Copyright (c) 2024 Nexthop Labs, Inc.
// See LICENSE for copying information.

package fec

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// TestConcurrentConnectionsAreIndependent exercises spec.md section 5's
// "no cross-connection shared mutable state" claim: many connections'
// FEC state machines run concurrently, each driven through the same
// lose-then-recover sequence, sharing nothing but package-level
// read-only lookup tables and the cpuid-derived fastUnaligned flag.
func TestConcurrentConnectionsAreIndependent(t *testing.T) {
	const connections = 64

	g, _ := errgroup.WithContext(context.Background())
	for i := 0; i < connections; i++ {
		i := i
		g.Go(func() error {
			cfg := DefaultConfig()
			st := Enable(nil, CodingXORAll, cfg, NoopLogger())

			s1 := []byte(fmt.Sprintf("a%03d", i))
			window := st.Window
			window.Retain(&testSegment{seq: 0, payload: s1})

			s2 := []byte(fmt.Sprintf("b%03d", i))
			parityPayload := make([]byte, len(s1))
			for j := range s1 {
				parityPayload[j] = s1[j] ^ s2[j]
			}

			tc := &fakeAckTC{rcvNext: 4, retransmit: &fakeRetransmit{}}
			ooo := &testQueue{}
			tc2 := &testTC{fakeAckTC: tc, ooo: ooo}

			parity := &testSegment{seq: 0, payload: parityPayload}
			opt := ParsedOption{SawFEC: true, Flags: OptEncoded, EncSeq: 0, EncLen: 8}

			result, spans, err := Decode(st, tc2, opt, parity)
			if err != nil {
				return err
			}
			if result != ResultRecovered {
				return fmt.Errorf("connection %d: expected recovered, got %s", i, result)
			}
			if string(spans[0].Payload) != string(s2) {
				return fmt.Errorf("connection %d: recovered %q, want %q", i, spans[0].Payload, s2)
			}
			return nil
		})
	}

	require.NoError(t, g.Wait())
}

// testQueue adapts []Segment to OOOQueue for this file's tests.
type testQueue struct {
	segs []Segment
}

func (q *testQueue) IterateFrom(seq uint32, maxBytes uint32, sink func([]byte)) (uint32, error) {
	var delivered uint32
	next := seq
	for _, seg := range q.segs {
		if maxBytes > 0 && delivered >= maxBytes {
			break
		}
		start, end := dataRange(seg)
		if seqLessEqual(end, next) || seqGreater(start, next) {
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

// testTC composes fakeAckTC (ack_test.go) with a real OutOfOrder queue,
// since this file's scenario needs both the ACK-side fields and a
// decode-capable OOO queue.
type testTC struct {
	*fakeAckTC
	ooo *testQueue
}

func (tc *testTC) OutOfOrder() OOOQueue { return tc.ooo }

func TestDisableIsSafeDuringConcurrentUse(t *testing.T) {
	cfg := DefaultConfig()

	g, _ := errgroup.WithContext(context.Background())
	for i := 0; i < 16; i++ {
		st := Enable(nil, CodingXORAll, cfg, NoopLogger())
		g.Go(func() error {
			st.Window.Retain(&testSegment{seq: 0, payload: []byte("abcd")})
			Disable(st)
			assert.Equal(t, CodingNone, st.Type)
			assert.Zero(t, st.Window.BytesUsed())
			return nil
		})
	}
	require.NoError(t, g.Wait())
}
