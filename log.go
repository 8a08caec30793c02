// Copyright (c) 2024 Nexthop Labs, Inc.
// See LICENSE for copying information.

package fec

import (
	"sync"
	"time"

	"github.com/go-logr/logr"
	"golang.org/x/time/rate"
)

// Logger is the logging seam the engine writes through. It is satisfied
// directly by logr.Logger; production callers normally construct one from
// zap via go-logr/zapr, the same way the host transport's tests do.
type Logger = logr.Logger

// NoopLogger discards everything logged through it. Enable does not
// substitute it on its own; callers that want no logging pass it in.
func NoopLogger() Logger {
	return logr.Discard()
}

// connLogger wraps a Logger with the per-connection "log once" throttling
// that MissingOptionOnEncodedClaim requires (spec.md section 7): the first
// occurrence is logged, and further occurrences on the same connection are
// rate-limited rather than silenced outright, so a connection that recovers
// and then regresses is not permanently muted.
type connLogger struct {
	base Logger

	mu      sync.Mutex
	limiter *rate.Limiter
}

func newConnLogger(base Logger) *connLogger {
	return &connLogger{
		base: base,
		// one log line per connection per ten seconds is enough to see the
		// condition recur without flooding logs under sustained loss;
		// Enable replaces this with Config.MissingOptionLogInterval when
		// that parses as a positive duration.
		limiter: rate.NewLimiter(rate.Every(10*time.Second), 1),
	}
}

func (cl *connLogger) warnMissingOption(encSeq, encLen uint32) {
	cl.mu.Lock()
	allow := cl.limiter.Allow()
	cl.mu.Unlock()
	if !allow {
		return
	}
	cl.base.Info("dropping segment claiming ENCODED with no FEC option present",
		"encSeq", encSeq, "encLen", encLen)
}
