// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 256, cfg.CacheSize)
	assert.True(t, cfg.EnableJQ)
}

func TestLoad_NoSources(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_FileOverridesDefault(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "dilemma.yaml")
	require.NoError(t, writeFile(p, "cache_size: 1024\ndefault_resolver: basic\n"))

	cfg, err := Load(p, nil)
	require.NoError(t, err)
	assert.Equal(t, 1024, cfg.CacheSize)
	assert.Equal(t, "basic", cfg.DefaultResolver)
	assert.True(t, cfg.EnableJQ, "unset keys keep their default")
}

func TestLoad_FileSetsTimeUnitOverrides(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "dilemma.yaml")
	require.NoError(t, writeFile(p, "time_units:\n  day: 1.0\n  fortnight: 1209600.0\n"))

	cfg, err := Load(p, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"day": 1.0, "fortnight": 1209600.0}, cfg.TimeUnitOverrides)
}

func TestLoad_FlagsOverrideFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "dilemma.yaml")
	require.NoError(t, writeFile(p, "cache_size: 1024\n"))

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("cache_size", 64, "")
	require.NoError(t, flags.Set("cache_size", "64"))

	cfg, err := Load(p, flags)
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.CacheSize, "explicit flag wins over file")
}

func writeFile(path, contents string) error {
	return os.WriteFile(path, []byte(contents), 0o644)
}
