// Copyright (c) 2024 Nexthop Labs, Inc.
// See LICENSE for copying information.

package fec

import (
	"io"

	"github.com/francoispqt/gojay"
)

// decodeEvent is one structured record of a completed decode episode,
// emitted the way a qlog-style transport logs connection events -- the
// coding-for-quic-go example pack pulls in gojay transitively for
// exactly this kind of fast structured event encoding, in place of
// encoding/json's reflection-based path on a per-packet hot path. Only
// gojay's MarshalerJSONObject interface is implemented here; there is no
// corresponding Unmarshal side because these events are write-only
// telemetry, never read back by this engine.
type decodeEvent struct {
	Result DecodeResult
	EncSeq uint32
	EncLen uint32
	RecSeq uint32
	RecLen uint32
	Coding CodingType
}

// MarshalJSONObject implements gojay.MarshalerJSONObject.
func (e decodeEvent) MarshalJSONObject(enc *gojay.Encoder) {
	enc.StringKey("result", e.Result.String())
	enc.StringKey("coding", e.Coding.String())
	enc.Uint32Key("enc_seq", e.EncSeq)
	enc.Uint32Key("enc_len", e.EncLen)
	if e.Result == ResultRecovered {
		enc.Uint32Key("rec_seq", e.RecSeq)
		enc.Uint32Key("rec_len", e.RecLen)
	}
}

// IsNil implements gojay.MarshalerJSONObject; decodeEvent is always a
// value, never a nil pointer.
func (e decodeEvent) IsNil() bool { return false }

// EventSink receives one line of structured JSON per decode episode. A
// nil EventSink means events are not emitted; DecodeWithEvents is the
// only caller.
type EventSink struct {
	w   io.Writer
	enc *gojay.Encoder
}

// NewEventSink wraps w for structured per-episode decode logging.
func NewEventSink(w io.Writer) *EventSink {
	return &EventSink{w: w, enc: gojay.NewEncoder(w)}
}

func (s *EventSink) emit(ev decodeEvent) {
	if s == nil {
		return
	}
	if err := s.enc.EncodeObject(ev); err != nil {
		return
	}
	_, _ = s.w.Write([]byte("\n"))
}

// DecodeWithEvents is Decode plus a structured event emission, kept as a
// thin wrapper so the hot Decode path itself never pays for encoding
// setup when no sink is attached (spec.md section 5's "no FEC operation
// blocks or suspends" extends to not doing avoidable I/O in the common
// no-loss case either).
func DecodeWithEvents(st *State, tc TransportContext, opt ParsedOption, parity Segment, sink *EventSink) (DecodeResult, []RecoveredSpan, error) {
	result, spans, err := Decode(st, tc, opt, parity)
	if err != nil || sink == nil {
		return result, spans, err
	}

	ev := decodeEvent{Result: result, EncSeq: opt.EncSeq, EncLen: opt.EncLen, Coding: st.Type}
	if len(spans) > 0 {
		ev.RecSeq = spans[0].Seq
		ev.RecLen = uint32(len(spans[0].Payload))
	}
	sink.emit(ev)

	return result, spans, err
}
