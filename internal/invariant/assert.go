// Copyright (c) 2024 Nexthop Labs, Inc.
// See LICENSE for copying information.

// Package invariant provides a debug-only assertion used to check the
// data-model invariants spec.md section 3 names (I1-I5), adapted from the
// teacher's libutp.dumbAssert (storj.io/utp-go/libutp/cpp_adaptation.go):
// the same "walk the caller stack and panic with the failing line" shape,
// but gated behind the "fecdebug" build tag so it costs nothing in
// production builds -- the same role the teacher's "utpdebug" tag plays
// for Socket.checkInvariants.
//
// Check's implementation lives in assert_debug.go / assert_prod.go.
package invariant

// Check reports a failed invariant if cond is false. Outside of fecdebug
// builds this does nothing at all; msg should name the invariant (e.g.
// "I2: bytes_rcv_queue bound").
func Check(cond bool, msg string) {
	check(cond, msg)
}
