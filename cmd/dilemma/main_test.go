// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestRootCommand_HasExpectedSubcommands(t *testing.T) {
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--help"})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	for _, sub := range []string{"eval", "check", "resolvers"} {
		assert.Contains(t, output, sub)
	}
}

func TestRootCommand_ConfigFlag(t *testing.T) {
	defer func() { configFile = "" }()

	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--config", "/path/to/dilemma.yaml", "--help"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "/path/to/dilemma.yaml", configFile)
}

func TestFormatVersion(t *testing.T) {
	got := formatVersion("1.0.0", "abc123", "2026-07-31")
	assert.Equal(t, "1.0.0 (commit: abc123, built: 2026-07-31)", got)
}

func TestRun_Success(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"dilemma", "--help"}

	assert.Equal(t, 0, run())
}

func TestRun_Error(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"dilemma", "nonexistent-command"}

	assert.Equal(t, 1, run())
}
