// Copyright (c) 2024 Nexthop Labs, Inc.
// See LICENSE for copying information.

package fec

import "encoding/binary"

// Wire layout of the FEC experimental option (spec.md section 6). Byte
// offsets are packed the way the teacher's packet-header codecs pack
// fixed-width fields with binary.BigEndian (storj.io/utp-go/utp.go's
// packetFormat.encode/decode), generalized from 16-bit ack/seq fields to
// the 32-bit sequence space this transport uses.
const (
	// optKindExperimental is the TCP-option "kind" byte this FEC option is
	// carried under (RFC 6994 experimental option kind).
	optKindExperimental = 253

	// optMagic identifies this experimental option as carrying FEC data,
	// distinguishing it from any other experimental option the host
	// transport might define.
	optMagic uint16 = 0xFEC5

	optShortLen = 5  // kind(1) + len(1) + magic(2) + flags(1)
	optLongLen  = 12 // optShortLen + seq(4) + len24(3)

	offKind  = 0
	offLen   = 1
	offMagic = 2
	offFlags = 4
	offSeq   = 5
	offLen24 = 9
)

// put24 writes the low 24 bits of v to b in network byte order.
func put24(b []byte, v uint32) {
	b[0] = byte(v >> 16)
	b[1] = byte(v >> 8)
	b[2] = byte(v)
}

// get24 reads a 24-bit big-endian unsigned integer from b.
func get24(b []byte) uint32 {
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
}

// DecodeOption parses the FEC experimental option out of opt, the raw
// option bytes already located by the host transport's option scanner
// (spec.md section 4.1: "consumes the already-located FEC option
// bytes"). If opt is not an experimental option, or does not carry the
// FEC magic, DecodeOption returns a ParsedOption with SawFEC false and a
// nil error -- that is not an error case, it means no FEC option was
// present.
//
// An experimental option too short to hold the short form, or shorter
// than its own declared length, is reported as ErrShortOption; a declared
// length that is neither the short nor the long form, or ENCODED with a
// zero encoded length, is reported as ErrMalformedOption. The caller
// applies the MissingOptionOnEncodedClaim / drop dispositions from
// spec.md section 7.
func DecodeOption(opt []byte) (ParsedOption, error) {
	var parsed ParsedOption

	if len(opt) > offKind && opt[offKind] != optKindExperimental {
		return parsed, nil
	}
	if len(opt) < optShortLen {
		return parsed, ErrShortOption
	}
	if binary.BigEndian.Uint16(opt[offMagic:offMagic+2]) != optMagic {
		return parsed, nil
	}

	declaredLen := int(opt[offLen])
	if declaredLen != optShortLen && declaredLen != optLongLen {
		return parsed, ErrMalformedOption
	}
	if len(opt) < declaredLen {
		return parsed, ErrShortOption
	}

	parsed.SawFEC = true
	parsed.Flags = OptFlags(opt[offFlags])

	if declaredLen == optShortLen {
		return parsed, nil
	}

	seq := binary.BigEndian.Uint32(opt[offSeq : offSeq+4])
	length := get24(opt[offLen24 : offLen24+3])

	if parsed.Flags.Has(OptRecoveryFailed) {
		parsed.LostSeq, parsed.LostLen = seq, length
	} else {
		parsed.EncSeq, parsed.EncLen = seq, length
	}

	if parsed.Flags.Has(OptEncoded) && length == 0 {
		return parsed, ErrMalformedOption
	}

	return parsed, nil
}

// EncodeShortOption writes the 5-byte short-form FEC option (flags only)
// into dst, which must be at least optShortLen bytes. It is used both for
// ordinary outgoing segments advertising RECOVERY_* flags and, via
// RewriteLongToShort, for synthetic recovered segments (spec.md section
// 4.4 step 3).
func EncodeShortOption(dst []byte, flags OptFlags) {
	dst[offKind] = optKindExperimental
	dst[offLen] = optShortLen
	binary.BigEndian.PutUint16(dst[offMagic:offMagic+2], optMagic)
	dst[offFlags] = byte(flags)
}

// EncodeLongOption writes the 12-byte long-form FEC option into dst,
// which must be at least optLongLen bytes. When flags carries
// RECOVERY_FAILED, (seq, length) are encoded as (lost_seq, lost_len);
// otherwise as (enc_seq, enc_len) (spec.md section 6).
func EncodeLongOption(dst []byte, flags OptFlags, seq, length uint32) {
	dst[offKind] = optKindExperimental
	dst[offLen] = optLongLen
	binary.BigEndian.PutUint16(dst[offMagic:offMagic+2], optMagic)
	dst[offFlags] = byte(flags)
	binary.BigEndian.PutUint32(dst[offSeq:offSeq+4], seq)
	put24(dst[offLen24:offLen24+3], length)
}

// RewriteLongToShort converts a long-form FEC option in place into short
// form: clears ENCODED, preserves the other flags, and pads the
// now-unused tail bytes with NOP (spec.md section 4.4 step 3: "pad the
// tail of the original option bytes with NOP bytes so header length is
// unchanged"). opt must be a long-form option of exactly optLongLen
// bytes, as produced by EncodeLongOption or validated by DecodeOption.
//
// tcpOptNOP is the NOP option kind the host transport pads options with;
// it is not FEC-specific, but the rewrite needs to know it to keep the
// option area unambiguous to a later parse of the same buffer.
const tcpOptNOP = 1

func RewriteLongToShort(opt []byte) error {
	if len(opt) < optLongLen {
		return ErrShortOption
	}
	flags := OptFlags(opt[offFlags]) &^ OptEncoded
	EncodeShortOption(opt[:optShortLen], flags)
	for i := optShortLen; i < optLongLen; i++ {
		opt[i] = tcpOptNOP
	}
	return nil
}
