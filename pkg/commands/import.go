package commands

import (
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/agenda/pkg/runner/importer"
)

func addImport(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Import reservations and loaded days from yaml",
		Long: base.Wrap80("Import a yaml document with a days list (days to mark loaded) and a " +
			"reservations list. Use - to read from stdin."),
		Example: `
agenda import week.yaml
cat week.yaml | agenda import -
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, p, err := open(cmd.Context())
			if err != nil {
				return oo.HandleError(err)
			}
			defer p.Close()
			im := importer.Importer{
				Path:        args[0],
				In:          cmd.InOrStdin(),
				Persistence: p,
				Out:         cmd.OutOrStdout(),
			}
			err = im.Do(cmd.Context())
			return oo.HandleError(err)
		},
	}

	base.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}
