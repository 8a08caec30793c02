// Copyright (c) 2024 Nexthop Labs, Inc.
// See LICENSE for copying information.

package fec

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigOverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fec.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rcvQueueLimit: 32768\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.EqualValues(t, 32768, cfg.RcvQueueLimit)
	assert.Equal(t, DefaultConfig().MaxConsecutiveDecodeFailures, cfg.MaxConsecutiveDecodeFailures)
}

func TestLoadConfigRejectsZeroLimit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fec.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rcvQueueLimit: 0\n"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
