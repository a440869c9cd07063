package cli

import (
	"sort"

	"github.com/spf13/cobra"
)

func (a *app) flagsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "flags",
		Short: "Show configured feature flags and whether they apply to you",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw := a.rt.Flags.Raw()
			enabled := a.rt.Flags.Snapshot(a.rt.Session.UserID())

			names := make([]string, 0, len(raw))
			for name := range raw {
				names = append(names, name)
			}
			sort.Strings(names)

			table := newTable(cmd.OutOrStdout(), "Flag", "Value", "Enabled")
			for _, name := range names {
				state := "no"
				if enabled[name] {
					state = "yes"
				}
				table.Append([]string{name, raw[name], state})
			}
			table.Render()
			return nil
		},
	}
}
