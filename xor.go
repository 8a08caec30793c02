// Copyright (c) 2024 Nexthop Labs, Inc.
// See LICENSE for copying information.

package fec

import (
	"encoding/binary"

	"github.com/klauspost/cpuid/v2"
)

// wordXORThreshold is the minimum block length below which the per-word
// loop's setup cost isn't worth it; short blocks (a single missing
// keystroke's worth of bytes, or the final short block of an episode)
// just use the byte loop.
const wordXORThreshold = 64

// hasFastUnaligned reports whether the host CPU handles unaligned 64-bit
// loads/stores efficiently, the condition under which xorInto's word path
// is worth taking. amd64 and arm64 both do; cpuid.CPU.X64Level lets this
// stay correct on obscure 386/arm variants that don't, without a
// build-tag fork per architecture.
func hasFastUnaligned() bool {
	return cpuid.CPU.X64Level() > 0 || cpuid.CPU.Has(cpuid.ASIMD)
}

var fastUnaligned = hasFastUnaligned()

// xorInto XORs src into acc elementwise, acc[i] ^= src[i], for
// min(len(acc), len(src)) bytes. This is the accumulator step the decode
// engine (decode.go) applies once per block read, per spec.md section
// 4.3: "XOR into acc[0..L]".
func xorInto(acc, src []byte) {
	n := len(acc)
	if len(src) < n {
		n = len(src)
	}
	if n == 0 {
		return
	}
	if !fastUnaligned || n < wordXORThreshold {
		xorBytes(acc[:n], src[:n])
		return
	}

	words := n &^ 7
	for i := 0; i < words; i += 8 {
		a := binary.LittleEndian.Uint64(acc[i : i+8])
		b := binary.LittleEndian.Uint64(src[i : i+8])
		binary.LittleEndian.PutUint64(acc[i:i+8], a^b)
	}
	xorBytes(acc[words:n], src[words:n])
}

func xorBytes(acc, src []byte) {
	for i := range acc {
		acc[i] ^= src[i]
	}
}
