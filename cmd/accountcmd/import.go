// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package accountcmd

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/rari-yearn/stratctl/pkg/cobrautils"
	"github.com/rari-yearn/stratctl/pkg/ux"
)

var (
	useMnemonic   bool
	mnemonicIndex uint32
)

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <name> [private-key]",
		Short: "Import a private key as an account",
		Long: `The account import command encrypts an existing hex private key under
<name>. When the key is not given it is asked for without echo.

With --mnemonic the key is derived from a BIP-39 phrase at
m/44'/60'/0'/0/{index}, the path used by hardhat and foundry.

Example:
  stratctl account import dev
  stratctl account import anvil1 --mnemonic --index 1`,
		Args: cobrautils.RangeArgs(1, 2),
		RunE: importAccount,
	}
	cmd.Flags().BoolVar(&useMnemonic, "mnemonic", false, "derive the key from a mnemonic phrase")
	cmd.Flags().Uint32Var(&mnemonicIndex, "index", 0, "address index of the derived key")
	return cmd
}

func importAccount(_ *cobra.Command, args []string) error {
	name := args[0]
	var secret string
	if len(args) == 2 {
		secret = args[1]
	} else {
		prompt := "Private key"
		if useMnemonic {
			prompt = "Mnemonic"
		}
		var err error
		if secret, err = app.Prompt.CapturePassword(prompt); err != nil {
			return err
		}
	}
	password, err := newPassword()
	if err != nil {
		return err
	}
	var addr common.Address
	if useMnemonic {
		addr, err = app.Accounts().ImportMnemonic(name, secret, mnemonicIndex, password)
	} else {
		addr, err = app.Accounts().Import(name, strings.TrimSpace(secret), password)
	}
	if err != nil {
		return err
	}
	ux.Logger.GreenCheckmarkToUser("Account '%s' imported: %s", name, addr.Hex())
	return nil
}
