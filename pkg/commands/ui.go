package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/agenda/pkg/commands/options"
	"tableflip.dev/agenda/pkg/day"
	"tableflip.dev/agenda/pkg/runner/ui"
)

func addUI(topLevel *cobra.Command) {
	on := &options.OnOptions{}

	cmd := &cobra.Command{
		Use:   "ui",
		Short: "open the text-based user interface",
		Example: `
agenda ui
agenda ui --on tomorrow
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			selected, err := on.GetDay(day.Today())
			if err != nil {
				return err
			}
			s, p, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer p.Close()
			i := ui.UI{
				Persistence: p,
				Settings:    s.UI,
				Selected:    selected,
			}
			return i.Do(cmd.Context())
		},
	}

	options.AddOnArgs(cmd, on)
	registerDayCompletion(cmd, "on")

	topLevel.AddCommand(cmd)
}
