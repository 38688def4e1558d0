// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package networkcmd

import (
	"github.com/spf13/cobra"

	"github.com/rari-yearn/stratctl/pkg/application"
	"github.com/rari-yearn/stratctl/pkg/cobrautils"
)

var (
	app     *application.Stratctl
	network *string
)

// NewCmd creates the network command for inspecting configured networks.
func NewCmd(injectedApp *application.Stratctl, networkName *string) *cobra.Command {
	app = injectedApp
	network = networkName
	cmd := &cobra.Command{
		Use:   "network",
		Short: "Inspect configured networks",
		Long: `The network command lists the networks stratctl can connect to and checks
that they answer.

Networks are configured under 'networks' in ~/.stratctl/config.yaml:

  networks:
    mainnet-fork:
      rpc: http://127.0.0.1:8545
      chain_id: 1

Networks named 'development', or ending in '-dev' or '-fork', are expected
to offer dev controls (impersonation, snapshots, time travel).`,
		RunE: cobrautils.CommandSuiteUsage,
	}
	// stratctl network list
	cmd.AddCommand(newListCmd())
	// stratctl network status
	cmd.AddCommand(newStatusCmd())
	return cmd
}
