// Copyright (c) 2024 Nexthop Labs, Inc.
// See LICENSE for copying information.

package fec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeShortOption(t *testing.T) {
	buf := make([]byte, optShortLen)
	EncodeShortOption(buf, OptRecoverySuccessful|OptRecoveryCWR)

	parsed, err := DecodeOption(buf)
	require.NoError(t, err)
	assert.True(t, parsed.SawFEC)
	assert.True(t, parsed.Flags.Has(OptRecoverySuccessful))
	assert.True(t, parsed.Flags.Has(OptRecoveryCWR))
	assert.False(t, parsed.Flags.Has(OptEncoded))
}

func TestEncodeDecodeLongOptionEncoded(t *testing.T) {
	buf := make([]byte, optLongLen)
	EncodeLongOption(buf, OptEncoded, 1000, 512)

	parsed, err := DecodeOption(buf)
	require.NoError(t, err)
	assert.True(t, parsed.SawFEC)
	assert.True(t, parsed.Flags.Has(OptEncoded))
	assert.EqualValues(t, 1000, parsed.EncSeq)
	assert.EqualValues(t, 512, parsed.EncLen)
}

func TestEncodeDecodeLongOptionFailed(t *testing.T) {
	buf := make([]byte, optLongLen)
	EncodeLongOption(buf, OptRecoveryFailed, 2000, 256)

	parsed, err := DecodeOption(buf)
	require.NoError(t, err)
	assert.True(t, parsed.Flags.Has(OptRecoveryFailed))
	assert.EqualValues(t, 2000, parsed.LostSeq)
	assert.EqualValues(t, 256, parsed.LostLen)
	assert.Zero(t, parsed.EncSeq)
	assert.Zero(t, parsed.EncLen)
}

func TestDecodeOptionNotFEC(t *testing.T) {
	buf := []byte{2, 4, 1, 1} // ordinary MSS option, unrelated kind
	parsed, err := DecodeOption(buf)
	require.NoError(t, err)
	assert.False(t, parsed.SawFEC)
}

func TestDecodeOptionShort(t *testing.T) {
	_, err := DecodeOption([]byte{optKindExperimental, 5})
	assert.ErrorIs(t, err, ErrShortOption)
}

func TestDecodeOptionBadDeclaredLength(t *testing.T) {
	buf := make([]byte, optShortLen)
	EncodeShortOption(buf, 0)
	buf[offLen] = 7 // neither short nor long form
	_, err := DecodeOption(buf)
	assert.ErrorIs(t, err, ErrMalformedOption)
}

func TestDecodeOptionEncodedWithZeroLength(t *testing.T) {
	buf := make([]byte, optLongLen)
	EncodeLongOption(buf, OptEncoded, 10, 0)
	_, err := DecodeOption(buf)
	assert.ErrorIs(t, err, ErrMalformedOption)
}

func TestRewriteLongToShort(t *testing.T) {
	buf := make([]byte, optLongLen)
	EncodeLongOption(buf, OptEncoded|OptRecoverySuccessful, 42, 128)

	require.NoError(t, RewriteLongToShort(buf))

	parsed, err := DecodeOption(buf)
	require.NoError(t, err)
	assert.False(t, parsed.Flags.Has(OptEncoded))
	assert.True(t, parsed.Flags.Has(OptRecoverySuccessful))

	for i := optShortLen; i < optLongLen; i++ {
		assert.Equal(t, byte(tcpOptNOP), buf[i], "byte %d should be padded with NOP", i)
	}
}

func TestRewriteLongToShortTooShort(t *testing.T) {
	err := RewriteLongToShort(make([]byte, optShortLen))
	assert.ErrorIs(t, err, ErrShortOption)
}
