// Copyright (c) 2024 Nexthop Labs, Inc.
// See LICENSE for copying information.

package fec

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeqComparisonsAcrossWraparound(t *testing.T) {
	a := uint32(math.MaxUint32 - 1)
	b := uint32(2)

	assert.True(t, seqLess(a, b), "a precedes b across the wraparound boundary")
	assert.True(t, seqGreater(b, a))
	assert.False(t, seqLess(b, a))
	assert.Equal(t, a, seqMin(a, b))
	assert.Equal(t, b, seqMax(a, b))
}

func TestSeqComparisonsOrdinary(t *testing.T) {
	assert.True(t, seqLess(10, 20))
	assert.True(t, seqLessEqual(10, 10))
	assert.True(t, seqGreaterEqual(20, 20))
	assert.Equal(t, uint32(10), seqMin(10, 20))
	assert.Equal(t, uint32(20), seqMax(10, 20))
}
