// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package accountcmd

import (
	"github.com/spf13/cobra"

	"github.com/rari-yearn/stratctl/pkg/cobrautils"
	"github.com/rari-yearn/stratctl/pkg/ux"
)

func newNewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "new <name>",
		Short: "Generate a new account",
		Long: `The account new command generates a fresh secp256k1 key and stores it
encrypted under <name>.

Example:
  stratctl account new dev`,
		Args: cobrautils.ExactArgs(1),
		RunE: newAccount,
	}
}

func newAccount(_ *cobra.Command, args []string) error {
	name := args[0]
	password, err := newPassword()
	if err != nil {
		return err
	}
	addr, err := app.Accounts().New(name, password)
	if err != nil {
		return err
	}
	ux.Logger.GreenCheckmarkToUser("Account '%s' created: %s", name, addr.Hex())
	return nil
}
