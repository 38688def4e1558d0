// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package scenariocmd

import (
	"github.com/spf13/cobra"

	"github.com/rari-yearn/stratctl/pkg/application"
	"github.com/rari-yearn/stratctl/pkg/cobrautils"
)

var (
	app     *application.Stratctl
	network *string
)

// stratctl scenario
func NewCmd(injectedApp *application.Stratctl, networkName *string) *cobra.Command {
	app = injectedApp
	network = networkName
	cmd := &cobra.Command{
		Use:   "scenario",
		Short: "Run strategy lifecycle scenarios",
		Long: `The scenario command suite exercises the strategies of the current project
on a development chain, usually a node forking mainnet. Each scenario runs
on a fresh vault and strategy inside a chain snapshot that is reverted
afterwards.`,
		RunE: cobrautils.CommandSuiteUsage,
	}
	// stratctl scenario run
	cmd.AddCommand(newRunCmd())
	// stratctl scenario list
	cmd.AddCommand(newListCmd())
	return cmd
}
