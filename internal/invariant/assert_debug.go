// Copyright (c) 2024 Nexthop Labs, Inc.
// See LICENSE for copying information.

//go:build fecdebug

package invariant

import (
	"fmt"
	"runtime"
)

func check(cond bool, msg string) {
	if cond {
		return
	}
	var pc [8]uintptr
	n := runtime.Callers(3, pc[:])
	frames := runtime.CallersFrames(pc[:n])
	frame, _ := frames.Next()
	panic(fmt.Sprintf("invariant failed: %s\n  at %s:%d", msg, frame.File, frame.Line))
}
