// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package flags

import (
	"bytes"
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/rari-yearn/stratctl/pkg/application"
	"github.com/rari-yearn/stratctl/pkg/config"
	"github.com/rari-yearn/stratctl/pkg/pools"
)

func TestAddPoolFlag(t *testing.T) {
	require := require.New(t)
	var names []string
	calls := 0
	cmd := &cobra.Command{
		Use: "run",
		PreRunE: func(*cobra.Command, []string) error {
			calls++
			return nil
		},
	}
	AddPoolFlag(cmd, pools.Default(), &names, "pools to run")

	require.NoError(cmd.Flags().Parse([]string{"--pool", "stable,ethereum"}))
	require.Equal([]string{"stable", "ethereum"}, names)
	require.NoError(cmd.PreRunE(cmd, nil))
	require.Equal(1, calls)

	require.NoError(cmd.Flags().Parse([]string{"--pool", "bogus"}))
	require.ErrorIs(cmd.PreRunE(cmd, nil), pools.ErrUnknownPool)
}

func TestAddPoolFlagKeepsFailingPreRun(t *testing.T) {
	var names []string
	boom := errors.New("boom")
	cmd := &cobra.Command{Use: "run", PreRunE: func(*cobra.Command, []string) error { return boom }}
	AddPoolFlag(cmd, pools.Default(), &names, "pools to run")
	require.ErrorIs(t, cmd.PreRunE(cmd, nil), boom)
}

func TestResolveNetwork(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	config.SetDefaults(t.TempDir())
	app := application.New()
	app.Setup(t.TempDir(), nil, nil, nil)

	require.Equal(t, "mainnet-fork", ResolveNetwork(app, "mainnet-fork"))
	require.Equal(t, "development", ResolveNetwork(app, ""))
}

func TestFlagGroups(t *testing.T) {
	require := require.New(t)
	var pool, source string
	var verify bool
	cmd := &cobra.Command{Use: "deploy", Long: "Deploy things.", Run: func(*cobra.Command, []string) {}}
	cmd.Flags().StringVar(&source, "account", "", "deployer account")
	poolGroup := RegisterFlagGroup(cmd, "Pool Flags", "show-pool-flags", true, func(set *pflag.FlagSet) {
		set.StringVar(&pool, "pool", "yield", "rari pool")
	})
	verifyGroup := RegisterFlagGroup(cmd, "Verification Flags", "show-verification-flags", false, func(set *pflag.FlagSet) {
		set.BoolVar(&verify, "publish-source", false, "verify on etherscan")
	})
	cmd.SetHelpFunc(WithGroupedHelp([]GroupedFlags{poolGroup, verifyGroup}))

	require.NoError(cmd.Flags().Parse([]string{"--pool", "stable", "--publish-source"}))
	require.Equal("stable", pool)
	require.True(verify)
	require.True(poolGroup.Shown())
	require.False(verifyGroup.Shown())

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.HelpFunc()(cmd, nil)
	help := out.String()
	require.Contains(help, "Deploy things.")
	require.Contains(help, "--account")
	require.Contains(help, "Pool Flags:\n")
	require.Contains(help, "--pool")
	require.Contains(help, "Verification Flags: use --show-verification-flags to list them")
	require.NotContains(help, "--publish-source")

	require.NoError(cmd.Flags().Parse([]string{"--show-verification-flags"}))
	out.Reset()
	cmd.HelpFunc()(cmd, nil)
	require.Contains(out.String(), "--publish-source")
}
