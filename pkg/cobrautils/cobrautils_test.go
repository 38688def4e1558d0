// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cobrautils

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func newCmd(args cobra.PositionalArgs) (*cobra.Command, *bytes.Buffer) {
	var out bytes.Buffer
	cmd := &cobra.Command{Use: "account", Args: args, RunE: func(*cobra.Command, []string) error { return nil }}
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	return cmd, &out
}

func TestExactArgs(t *testing.T) {
	require := require.New(t)
	cmd, _ := newCmd(ExactArgs(1))
	require.NoError(cmd.Args(cmd, []string{"dev"}))

	err := cmd.Args(cmd, nil)
	require.ErrorContains(err, "account expects 1 argument(s), received 0")
}

func TestRangeArgs(t *testing.T) {
	require := require.New(t)
	cmd, out := newCmd(RangeArgs(1, 2))
	require.NoError(cmd.Args(cmd, []string{"dev"}))
	require.NoError(cmd.Args(cmd, []string{"dev", "0xabc"}))
	require.ErrorContains(cmd.Args(cmd, []string{"a", "b", "c"}), "between 1 and 2")
	require.Contains(out.String(), "Usage:")
}

func TestCommandSuiteUsage(t *testing.T) {
	require := require.New(t)
	var out bytes.Buffer
	cmd := &cobra.Command{Use: "scenario", Short: "Run strategy scenarios", RunE: CommandSuiteUsage}
	cmd.SetOut(&out)
	require.NoError(CommandSuiteUsage(cmd, nil))
	require.Contains(out.String(), "Run strategy scenarios")
	require.ErrorContains(CommandSuiteUsage(cmd, []string{"bogus"}), `unknown command "bogus" for "scenario"`)
}
