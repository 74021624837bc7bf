package commands

import (
	"context"

	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/agenda/pkg/store"
)

var (
	oo = &base.OutputOptions{}
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "agenda",
		Short: base.Wrap80("Reservations by day, on the command line."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addUI(topLevel)
	addAdd(topLevel)
	addList(topLevel)
	addImport(topLevel)
	addMark(topLevel)
	addMCP(topLevel)
	addVersion(topLevel)
	addCompletions(topLevel)
}

// open reads .agenda.yaml and opens the configured backend.
func open(ctx context.Context) (*store.Settings, store.Persistence, error) {
	s, err := store.LoadSettings()
	if err != nil {
		return nil, nil, err
	}
	p, err := store.Open(ctx, s)
	if err != nil {
		return nil, nil, err
	}
	return s, p, nil
}
