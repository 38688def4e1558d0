// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package flags

import (
	"github.com/spf13/cobra"

	"github.com/rari-yearn/stratctl/pkg/application"
	"github.com/rari-yearn/stratctl/pkg/pools"
)

const (
	NetworkFlag = "network"
	PoolFlag    = "pool"
)

// AddPoolFlag registers a repeatable --pool flag checked against the pool
// registry before the command runs
func AddPoolFlag(cmd *cobra.Command, registry *pools.Registry, names *[]string, usage string) {
	cmd.Flags().StringSliceVar(names, PoolFlag, nil, usage)
	addPreRun(cmd, func(*cobra.Command, []string) error {
		_, err := registry.Select(*names)
		return err
	})
}

// ResolveNetwork returns the --network value, or the configured default
// network when the flag was not given
func ResolveNetwork(app *application.Stratctl, network string) string {
	if network != "" {
		return network
	}
	return app.Conf.DefaultNetwork()
}

func addPreRun(cmd *cobra.Command, preRun func(*cobra.Command, []string) error) {
	existingPreRunE := cmd.PreRunE
	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		if existingPreRunE != nil {
			if err := existingPreRunE(cmd, args); err != nil {
				return err
			}
		}
		return preRun(cmd, args)
	}
}
