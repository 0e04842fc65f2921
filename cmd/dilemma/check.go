// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/patrickcd/dilemma/internal/batch"
	"github.com/patrickcd/dilemma/pkg/errutil"
)

// newCheckCmd creates the check subcommand.
func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <batch.yaml>",
		Short: "Validate and parse every expression in a batch file",
		Long:  `Load a batch file, validate it against the batch schema, and parse (without evaluating) each of its expressions.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args[0])
		},
	}
	return cmd
}

func runCheck(cmd *cobra.Command, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading batch file: %w", err)
	}

	doc, err := batch.ParseDocument(data)
	if err != nil {
		return fmt.Errorf("validating batch file: %w", err)
	}

	ccfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	reg, err := buildRegistry(ccfg)
	if err != nil {
		return err
	}

	cache := buildCache(ccfg)
	results := batch.Check(doc, reg, cache)
	for _, r := range results {
		if r.Err != nil {
			errutil.LogCompileFailure(slog.Default(), r.Source, r.Err)
			cmd.Printf("FAIL  %s: %v\n", r.Source, r.Err)
			continue
		}
		cmd.Printf("OK    %s\n", r.Source)
	}

	if !batch.AllOK(results) {
		return fmt.Errorf("%d of %d expressions failed to parse", countFailed(results), len(results))
	}
	return nil
}

func countFailed(results []batch.ExpressionResult) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
