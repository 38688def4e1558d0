// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package scenariocmd

import (
	"github.com/spf13/cobra"

	"github.com/rari-yearn/stratctl/pkg/cobrautils"
	"github.com/rari-yearn/stratctl/pkg/harness/scenarios"
	"github.com/rari-yearn/stratctl/pkg/ux"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the scenarios in run order",
		Args:  cobrautils.ExactArgs(0),
		RunE:  listScenarios,
	}
}

func listScenarios(*cobra.Command, []string) error {
	all := scenarios.All()
	rows := make([][]string, 0, len(all))
	for _, sc := range all {
		rows = append(rows, []string{sc.Name, sc.Description})
	}
	return ux.Logger.RenderTable([]string{"Scenario", "Description"}, rows)
}
