// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package networkcmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/rari-yearn/stratctl/cmd/flags"
	"github.com/rari-yearn/stratctl/pkg/cobrautils"
	"github.com/rari-yearn/stratctl/pkg/ux"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check that the selected network answers",
		Long: `The network status command connects to the selected network and prints
its chain id and head block.`,
		Args: cobrautils.ExactArgs(0),
		RunE: networkStatus,
	}
}

func networkStatus(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	name := flags.ResolveNetwork(app, *network)
	c, net, err := app.DialNetwork(ctx, name)
	if err != nil {
		ux.Logger.RedXToUser("%s is not reachable", name)
		return err
	}
	defer c.Close()
	head, err := c.Client().BlockNumber(ctx)
	if err != nil {
		return err
	}
	headTime, err := c.HeadTime(ctx)
	if err != nil {
		return err
	}
	ux.Logger.GreenCheckmarkToUser("%s is up", name)
	ux.Logger.PrintToUser("  RPC:        %s", net.RPC)
	ux.Logger.PrintToUser("  Kind:       %s", net.Kind())
	ux.Logger.PrintToUser("  Chain ID:   %s", c.ChainID())
	ux.Logger.PrintToUser("  Head block: %s (%s)", ux.ConvertToStringWithThousandSeparator(head), headTime.UTC().Format(time.RFC3339))
	return nil
}
