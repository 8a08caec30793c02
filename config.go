// Copyright (c) 2024 Nexthop Labs, Inc.
// See LICENSE for copying information.

package fec

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the tunable constants the spec calls out by name
// (FEC_RCV_QUEUE_LIMIT and friends) plus the policy knobs this module adds
// to resolve spec.md's open questions. The zero Config is not valid; use
// DefaultConfig and override from there.
type Config struct {
	// RcvQueueLimit bounds bytes_rcv_queue (spec.md invariant I2). Default
	// 16 KiB, per spec.md section 2.
	RcvQueueLimit uint32 `yaml:"rcvQueueLimit"`

	// MaxConsecutiveDecodeFailures resolves spec.md section 9's open
	// question about repeated -ENOMEM-class errors: after this many
	// consecutive AllocationFailure/LinearizationFailure results on one
	// connection, FEC is disabled on that connection rather than silently
	// degrading forever. Zero disables this policy (never auto-disable).
	MaxConsecutiveDecodeFailures int `yaml:"maxConsecutiveDecodeFailures"`

	// MissingOptionLogInterval is how often, at most, a connection logs
	// the MissingOptionOnEncodedClaim condition. See log.go.
	MissingOptionLogInterval string `yaml:"missingOptionLogInterval"`
}

// DefaultConfig returns the constants named directly in spec.md plus this
// module's resolved policy defaults (spec.md section 9's open questions).
func DefaultConfig() Config {
	return Config{
		RcvQueueLimit:                16 * 1024,
		MaxConsecutiveDecodeFailures: 4,
		MissingOptionLogInterval:     "10s",
	}
}

// LoadConfig reads a YAML configuration file and overlays it onto
// DefaultConfig; fields absent from the file keep their default value.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("fec: reading config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("fec: parsing config %q: %w", path, err)
	}
	if cfg.RcvQueueLimit == 0 {
		return Config{}, fmt.Errorf("fec: config %q: rcvQueueLimit must be nonzero", path)
	}
	return cfg, nil
}
