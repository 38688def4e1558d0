// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package flags

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// GroupedFlags is a titled set of flags listed apart in the command help
type GroupedFlags struct {
	Title    string
	ShowFlag string
	show     *bool
	set      *pflag.FlagSet
}

// Shown tells whether help lists the group's flags
func (g GroupedFlags) Shown() bool {
	return *g.show
}

// RegisterFlagGroup adds the flags defined by register to cmd. Help lists
// them under title, or just names --showFlag when defaultShow is false.
func RegisterFlagGroup(
	cmd *cobra.Command,
	title string,
	showFlag string,
	defaultShow bool,
	register func(set *pflag.FlagSet),
) GroupedFlags {
	set := pflag.NewFlagSet(title, pflag.ContinueOnError)
	register(set)
	cmd.Flags().AddFlagSet(set)
	show := defaultShow
	cmd.Flags().BoolVar(&show, showFlag, defaultShow, "list "+strings.ToLower(title)+" in help")
	_ = cmd.Flags().MarkHidden(showFlag)
	return GroupedFlags{Title: title, ShowFlag: showFlag, show: &show, set: set}
}

// WithGroupedHelp prints ungrouped flags first, then each group
func WithGroupedHelp(groups []GroupedFlags) func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, _ []string) {
		grouped := map[string]bool{}
		for _, g := range groups {
			grouped[g.ShowFlag] = true
			g.set.VisitAll(func(f *pflag.Flag) { grouped[f.Name] = true })
		}
		other := pflag.NewFlagSet("flags", pflag.ContinueOnError)
		cmd.LocalFlags().VisitAll(func(f *pflag.Flag) {
			if !grouped[f.Name] {
				other.AddFlag(f)
			}
		})

		var b strings.Builder
		if cmd.Long != "" {
			fmt.Fprintf(&b, "%s\n\n", cmd.Long)
		}
		fmt.Fprintf(&b, "Usage:\n  %s\n\nFlags:\n%s", cmd.UseLine(), other.FlagUsages())
		for _, g := range groups {
			if g.Shown() {
				fmt.Fprintf(&b, "\n%s:\n%s", g.Title, g.set.FlagUsages())
			} else {
				fmt.Fprintf(&b, "\n%s: use --%s to list them\n", g.Title, g.ShowFlag)
			}
		}
		if cmd.HasAvailableInheritedFlags() {
			fmt.Fprintf(&b, "\nGlobal Flags:\n%s", cmd.InheritedFlags().FlagUsages())
		}
		fmt.Fprint(cmd.OutOrStdout(), b.String())
	}
}
