package commands

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/agenda/pkg/commands/options"
	"tableflip.dev/agenda/pkg/day"
	"tableflip.dev/agenda/pkg/runner/add"
	"tableflip.dev/agenda/pkg/snake"
)

func addAdd(topLevel *cobra.Command) {
	ro := &options.ReservationOptions{}
	on := &options.OnOptions{}
	i := &options.InteractiveOptions{}

	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add a reservation",
		Long:  base.Wrap80("Add a reservation to a day. The day counts as loaded from then on, even after the reservation is deleted."),
		Example: `
agenda add dinner with the Parkers --on friday --start 19:30
agenda add --on 2024-07-04 --note "bring chairs" fireworks
agenda add -i
`,
		Args: func(cmd *cobra.Command, args []string) error {
			ro.Title = strings.Join(args, " ")
			if ro.Title == "" && !i.Interactive {
				return errors.New("requires a title")
			}
			return nil
		},
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if !i.Interactive {
				return nil
			}
			if ro.Title == "" {
				title, err := snake.PromptText(cmd, "title")
				if err != nil {
					return err
				}
				ro.Title = title
			}
			return snake.PromptFlags(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := on.GetDay(day.Today())
			if err != nil {
				return oo.HandleError(err)
			}
			_, p, err := open(cmd.Context())
			if err != nil {
				return oo.HandleError(err)
			}
			defer p.Close()
			s := add.Add{
				Day:         d,
				Title:       ro.Title,
				Note:        ro.Note,
				Start:       ro.Start,
				End:         ro.End,
				Persistence: p,
				Out:         cmd.OutOrStdout(),
			}
			err = s.Do(cmd.Context())
			return oo.HandleError(err)
		},
	}

	options.AddOnArgs(cmd, on)
	registerDayCompletion(cmd, "on")
	options.AddReservationArgs(cmd, ro)
	options.InteractiveArgs(cmd, i)
	base.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
