// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package accountcmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/rari-yearn/stratctl/pkg/application"
	"github.com/rari-yearn/stratctl/pkg/cobrautils"
	"github.com/rari-yearn/stratctl/pkg/constants"
)

var (
	app *application.Stratctl

	errPasswordMismatch = errors.New("passwords do not match")
)

// stratctl account
func NewCmd(injectedApp *application.Stratctl) *cobra.Command {
	app = injectedApp
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage deployer accounts",
		Long: `The account command suite manages the encrypted keystore the deploy command
unlocks its deployer account from. Accounts are stored as web3 secret
storage files under ~/.stratctl/keystore.

To get started, use the account new or account import command.`,
		RunE: cobrautils.CommandSuiteUsage,
	}
	// stratctl account list
	cmd.AddCommand(newListCmd())
	// stratctl account new
	cmd.AddCommand(newNewCmd())
	// stratctl account import
	cmd.AddCommand(newImportCmd())
	return cmd
}

// newPassword reads STRATCTL_ACCOUNT_PASSWORD, or asks twice
func newPassword() (string, error) {
	if pw := os.Getenv(constants.EnvAccountPassword); pw != "" {
		return pw, nil
	}
	pw, err := app.Prompt.CapturePassword("Enter a password to encrypt the account")
	if err != nil {
		return "", err
	}
	again, err := app.Prompt.CapturePassword("Repeat the password")
	if err != nil {
		return "", err
	}
	if pw != again {
		return "", errPasswordMismatch
	}
	return pw, nil
}
