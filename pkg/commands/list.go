package commands

import (
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/agenda/pkg/commands/options"
	"tableflip.dev/agenda/pkg/day"
	"tableflip.dev/agenda/pkg/runner/list"
)

func addList(topLevel *cobra.Command) {
	on := &options.OnOptions{}
	wo := &options.WindowOptions{}
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls", "get"},
		Short:   "Print the agenda around a day",
		Long: base.Wrap80("Print the loaded days of the selected day's month up to that day, " +
			"then the loaded days that follow it. This is the window the ui scrolls through."),
		Example: `
agenda list
agenda list --on 2024-07-04 --calendar
agenda list --json --only-selected
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := on.GetDay(day.Today())
			if err != nil {
				return oo.HandleError(err)
			}
			s, p, err := open(cmd.Context())
			if err != nil {
				return oo.HandleError(err)
			}
			defer p.Close()

			l := list.List{
				Day:          d,
				Calendar:     wo.Calendar,
				JSON:         oo.JSON,
				ShowID:       io.ShowID,
				OnlySelected: wo.OnlySelected || s.UI.ShowOnlySelectedDay,
				ForwardDays:  wo.ForwardDays,
				Persistence:  p,
				Out:          cmd.OutOrStdout(),
			}
			if l.ForwardDays == 0 {
				l.ForwardDays = s.UI.ForwardDays
			}
			err = l.Do(cmd.Context())
			return oo.HandleError(err)
		},
	}

	options.AddOnArgs(cmd, on)
	registerDayCompletion(cmd, "on")
	options.AddWindowArgs(cmd, wo)
	options.AddShowIDArgs(cmd, io)
	base.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
