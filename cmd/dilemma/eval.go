// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/patrickcd/dilemma/internal/value"
	"github.com/patrickcd/dilemma/pkg/errutil"
)

// evalConfig holds configuration for the eval command.
type evalConfig struct {
	contextPath string
}

// newEvalCmd creates the eval subcommand.
func newEvalCmd() *cobra.Command {
	cfg := &evalConfig{}

	cmd := &cobra.Command{
		Use:   "eval <expression>",
		Short: "Evaluate a dilemma expression",
		Long:  `Parse and evaluate a single dilemma expression against an optional JSON context file.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(cmd, cfg, args[0])
		},
	}

	cmd.Flags().StringVar(&cfg.contextPath, "context", "", "path to a JSON file supplying the variable context")

	return cmd
}

func runEval(cmd *cobra.Command, cfg *evalConfig, source string) error {
	ccfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	reg, err := buildRegistry(ccfg)
	if err != nil {
		return err
	}

	ctxValue, err := loadContext(cfg.contextPath)
	if err != nil {
		return err
	}

	cache := buildCache(ccfg)
	expr, err := cache.GetOrCompile(source, reg)
	if err != nil {
		errutil.LogCompileFailure(slog.Default(), source, err)
		return fmt.Errorf("parsing expression: %w", err)
	}

	result, err := expr.Evaluate(ctxValue)
	if err != nil {
		errutil.LogEvaluationFailure(slog.Default(), source, err)
		return fmt.Errorf("evaluating expression: %w", err)
	}

	cmd.Println(formatResult(result))
	return nil
}

// loadContext reads a JSON context file, or returns Null if path is
// empty.
func loadContext(path string) (value.Value, error) {
	if path == "" {
		return value.Null, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return value.Null, fmt.Errorf("reading context file: %w", err)
	}

	var native any
	if err := json.Unmarshal(data, &native); err != nil {
		return value.Null, fmt.Errorf("parsing context JSON: %w", err)
	}

	ctxValue, err := value.FromNative(native)
	if err != nil {
		return value.Null, fmt.Errorf("converting context: %w", err)
	}
	return ctxValue, nil
}

// formatResult renders a Value the way a shell user expects: bare
// scalars print plain, composite values print as JSON.
func formatResult(v value.Value) string {
	switch v.Kind() {
	case value.KindNull:
		return "null"
	case value.KindBool, value.KindInt, value.KindFloat, value.KindString, value.KindDate:
		return v.String()
	default:
		native := v.ToNative()
		data, err := json.Marshal(native)
		if err != nil {
			return v.String()
		}
		return string(data)
	}
}
