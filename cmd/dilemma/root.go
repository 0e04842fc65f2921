// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/patrickcd/dilemma/internal/compile"
	"github.com/patrickcd/dilemma/internal/config"
	"github.com/patrickcd/dilemma/internal/logging"
	"github.com/patrickcd/dilemma/internal/resolver"
	"github.com/patrickcd/dilemma/internal/value"
)

// Global flags available to all subcommands.
var (
	configFile string
	logFormat  string
)

// NewRootCmd creates the root command for the dilemma CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dilemma",
		Short: "dilemma - a safe, embeddable expression evaluator",
		Long: `dilemma parses and evaluates a compact expression mini-language
against a caller-supplied variable context: arithmetic, comparison,
membership, glob matching, and date reasoning, but no loops or
assignment.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetDefault("dilemma", version, logFormat)
		},
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	cmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log output format: text or json")

	cmd.AddCommand(newEvalCmd())
	cmd.AddCommand(newCheckCmd())
	cmd.AddCommand(newResolversCmd())

	return cmd
}

// loadConfig resolves the CLI config from --config plus any flags on
// cmd, falling back to defaults when configFile is empty. As a side
// effect it installs cfg.TimeUnitOverrides as the process-wide
// within/older_than unit table, so every command in this invocation
// evaluates date arithmetic against the same overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return nil, err
	}
	value.SetUnitOverrides(cfg.TimeUnitOverrides)
	return cfg, nil
}

// buildRegistry constructs the resolver registry the CLI evaluates
// against, honoring cfg.EnableJQ and cfg.DefaultResolver.
func buildRegistry(cfg *config.Config) (*resolver.Registry, error) {
	reg := resolver.NewDefaultRegistry()
	if !cfg.EnableJQ && reg.Default() != nil {
		// JQ stays registered (selectable by name) but never sits as the
		// active default when disabled; fall back to jsonpath, then basic.
		for _, name := range []string{"jsonpath", "basic"} {
			if err := reg.SetDefault(name); err == nil {
				slog.Debug("dilemma: resolver registered", "resolver", name, "default", true, "reason", "enable_jq=false")
				break
			}
		}
	}
	if cfg.DefaultResolver != "" {
		if err := reg.SetDefault(cfg.DefaultResolver); err != nil {
			slog.Warn("dilemma: default resolver selection failed", "resolver", cfg.DefaultResolver, "error", err)
			return nil, err
		}
		slog.Debug("dilemma: resolver registered", "resolver", cfg.DefaultResolver, "default", true, "reason", "config.default_resolver")
	}
	return reg, nil
}

// buildCache constructs the compiled-expression cache the CLI compiles
// against, sized by cfg.CacheSize so a single invocation that parses the
// same expression more than once (a batch file with repeated checks, a
// shared --config across commands) doesn't reparse it.
func buildCache(cfg *config.Config) *compile.Cache {
	return compile.NewCache(cfg.CacheSize)
}
