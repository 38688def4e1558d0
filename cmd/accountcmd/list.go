// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package accountcmd

import (
	"github.com/spf13/cobra"

	"github.com/rari-yearn/stratctl/pkg/cobrautils"
	"github.com/rari-yearn/stratctl/pkg/ux"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List keystore accounts",
		Args:  cobrautils.ExactArgs(0),
		RunE:  listAccounts,
	}
}

func listAccounts(*cobra.Command, []string) error {
	store := app.Accounts()
	names, err := store.List()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		ux.Logger.PrintToUser("No accounts in %s", store.Dir())
		return nil
	}
	rows := make([][]string, 0, len(names))
	for _, name := range names {
		addr, err := store.Address(name)
		if err != nil {
			return err
		}
		rows = append(rows, []string{name, addr.Hex()})
	}
	return ux.Logger.RenderTable([]string{"Account", "Address"}, rows)
}
