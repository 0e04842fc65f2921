// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"github.com/spf13/cobra"
)

// newResolversCmd creates the resolvers subcommand.
func newResolversCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolvers",
		Short: "List registered resolvers and the current default",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runResolvers(cmd)
		},
	}
	return cmd
}

func runResolvers(cmd *cobra.Command) error {
	ccfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	reg, err := buildRegistry(ccfg)
	if err != nil {
		return err
	}

	def := reg.Default()
	for _, name := range reg.Names() {
		marker := " "
		if res, ok := reg.Resolver(name); ok && def != nil && res.Name() == def.Name() {
			marker = "*"
		}
		cmd.Printf("%s %s\n", marker, name)
	}
	return nil
}
