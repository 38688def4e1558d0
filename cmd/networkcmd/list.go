// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package networkcmd

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rari-yearn/stratctl/pkg/cobrautils"
	"github.com/rari-yearn/stratctl/pkg/ux"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured networks",
		Long: `The network list command prints every configured network. The default
network is marked with '*'.`,
		Args: cobrautils.ExactArgs(0),
		RunE: listNetworks,
	}
}

func listNetworks(*cobra.Command, []string) error {
	networks, err := app.Conf.Networks()
	if err != nil {
		return err
	}
	defaultNetwork := app.Conf.DefaultNetwork()
	rows := make([][]string, 0, len(networks))
	for _, n := range networks {
		name := n.Name
		if name == defaultNetwork {
			name += " *"
		}
		chainID := "any"
		if n.ChainID != 0 {
			chainID = strconv.FormatUint(n.ChainID, 10)
		}
		rows = append(rows, []string{name, n.Kind().String(), n.RPC, chainID, n.Explorer})
	}
	return ux.Logger.RenderTable([]string{"Network", "Kind", "RPC", "Chain ID", "Explorer"}, rows)
}
