package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/agenda/pkg/day"
	"tableflip.dev/agenda/pkg/runner/mark"
)

func addMark(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "mark <day>...",
		Short: "Mark days as loaded",
		Long: `A loaded day without reservations shows as "no reservations" instead of
a loading placeholder.`,
		Example: `
agenda mark today tomorrow
agenda mark 2024-07-03
`,
		Args: cobra.MinimumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return dayCompletions(cmd, toComplete), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			today := day.Today()
			days := make([]day.Day, 0, len(args))
			for _, a := range args {
				d, err := day.ParseLoose(a, today)
				if err != nil {
					return oo.HandleError(err)
				}
				days = append(days, d)
			}
			_, p, err := open(cmd.Context())
			if err != nil {
				return oo.HandleError(err)
			}
			defer p.Close()
			m := mark.Mark{
				Days:        days,
				Persistence: p,
				Out:         cmd.OutOrStdout(),
			}
			err = m.Do(cmd.Context())
			return oo.HandleError(err)
		},
	}

	topLevel.AddCommand(cmd)
}
