// Copyright (c) 2024 Nexthop Labs, Inc.
// See LICENSE for copying information.

//go:build !fecdebug

package invariant

func check(cond bool, msg string) {}
