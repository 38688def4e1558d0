// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cobrautils

import (
	"fmt"

	"github.com/spf13/cobra"
)

// CommandSuiteUsage is the RunE of commands that only group subcommands
func CommandSuiteUsage(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		_ = cmd.Help()
		return fmt.Errorf("unknown command %q for %q", args[0], cmd.CommandPath())
	}
	return cmd.Help()
}

// ExactArgs prints usage before failing on a wrong argument count
func ExactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			cmd.SetOut(cmd.ErrOrStderr())
			_ = cmd.Usage()
			return fmt.Errorf("%s expects %d argument(s), received %d", cmd.CommandPath(), n, len(args))
		}
		return nil
	}
}

// RangeArgs prints usage before failing when the argument count is
// outside [min, max]
func RangeArgs(minArgs, maxArgs int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < minArgs || len(args) > maxArgs {
			cmd.SetOut(cmd.ErrOrStderr())
			_ = cmd.Usage()
			return fmt.Errorf("%s expects between %d and %d arguments, received %d", cmd.CommandPath(), minArgs, maxArgs, len(args))
		}
		return nil
	}
}
