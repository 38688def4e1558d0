// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package scenariocmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rari-yearn/stratctl/cmd/flags"
	"github.com/rari-yearn/stratctl/pkg/cobrautils"
	"github.com/rari-yearn/stratctl/pkg/constants"
	"github.com/rari-yearn/stratctl/pkg/harness"
	"github.com/rari-yearn/stratctl/pkg/harness/scenarios"
	"github.com/rari-yearn/stratctl/pkg/pools"
	"github.com/rari-yearn/stratctl/pkg/status"
	"github.com/rari-yearn/stratctl/pkg/ux"
)

type RunFlags struct {
	pools          []string
	scenarios      []string
	withProfit     bool
	checkProtected bool
}

var runFlags RunFlags

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run scenarios against a development chain",
		Long: `The scenario run command plays every selected scenario on every selected
pool and prints a result table. It fails when any scenario fails.

The network must allow impersonation and snapshots, which anvil and hardhat
nodes do. Without --pool the default pools of the registry are used.

Examples:
  stratctl scenario run --network mainnet-fork
  stratctl scenario run --pool ethereum --run operation,sweep --with-profit`,
		Args: cobrautils.ExactArgs(0),
		RunE: runScenarios,
	}
	flags.AddPoolFlag(cmd, pools.Default(), &runFlags.pools, "pools to run against (repeatable, default from the registry)")
	cmd.Flags().StringSliceVar(&runFlags.scenarios, "run", nil, "scenarios to run (repeatable, default all)")
	cmd.Flags().BoolVar(&runFlags.withProfit, "with-profit", false, "also check that a later harvest realises profit")
	cmd.Flags().BoolVar(&runFlags.checkProtected, "check-protected", false, "expect sweeping protected tokens to revert")
	return cmd
}

func runScenarios(cmd *cobra.Command, _ []string) error {
	registry := pools.Default()
	selectedPools, err := registry.Select(runFlags.pools)
	if err != nil {
		return err
	}
	selected, err := scenarios.Select(runFlags.scenarios)
	if err != nil {
		return err
	}

	networkName := flags.ResolveNetwork(app, *network)
	netConf, err := app.Conf.Network(networkName)
	if err != nil {
		return err
	}
	if !netConf.HasDevControls() {
		return fmt.Errorf("network %s is %s, scenarios need a development or fork network", networkName, netConf.Kind())
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), constants.ScenarioRunTimeout)
	defer cancel()
	c, _, err := app.DialNetwork(ctx, networkName)
	if err != nil {
		return err
	}
	defer c.Close()

	vaultArtifacts, dep, err := app.VaultArtifacts()
	if err != nil {
		return err
	}
	vault, err := vaultArtifacts.Get(constants.VaultContractName)
	if err != nil {
		return fmt.Errorf("vault from %s: %w", dep, err)
	}

	poolNames := make([]string, len(selectedPools))
	for i, p := range selectedPools {
		poolNames[i] = p.Name
	}
	app.Log.Info("running scenarios",
		zap.String("network", networkName),
		zap.Strings("pools", poolNames),
		zap.Int("scenarios", len(selected)),
	)
	runner := &scenarios.Runner{
		Env: &harness.Env{
			Chain:          c,
			Registry:       registry,
			Vault:          vault,
			Strategies:     app.ProjectArtifacts(),
			RelativeApprox: app.Conf.RelativeApprox(),
			Options: harness.Options{
				WithProfit:     runFlags.withProfit,
				CheckProtected: runFlags.checkProtected,
			},
			Log: app.Log,
		},
		Pools:     selectedPools,
		Scenarios: selected,
		Progress:  status.NewProgressTracker(ux.Logger.Writer()),
	}
	results := runner.Run(ctx)

	ux.Logger.PrintToUser("")
	if err := ux.Logger.RenderTable(scenarios.ReportHeaders, scenarios.ReportRows(results)); err != nil {
		return err
	}
	if failed := results.GetErrorMap(); len(failed) > 0 {
		return fmt.Errorf("%d of %d scenarios failed", len(failed), results.Len())
	}
	return nil
}
