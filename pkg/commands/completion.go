package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/agenda/pkg/store"
)

func addCompletions(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "completion",
		Short: "Generates bash completion scripts",
		Long: `To load completion run

. <(agenda completion)

To configure your bash shell to load completions for each session add to your bashrc

# ~/.bashrc or ~/.profile
. <(agenda completion)
`,
		Run: func(cmd *cobra.Command, args []string) {
			_ = topLevel.GenBashCompletion(cmd.OutOrStdout())
		},
	}

	topLevel.AddCommand(cmd)
}

func registerDayCompletion(cmd *cobra.Command, flagName string) {
	_ = cmd.RegisterFlagCompletionFunc(flagName, func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return dayCompletions(cmd, toComplete), cobra.ShellCompDirectiveNoFileComp
	})
}

// dayCompletions offers the relative names plus every loaded day.
func dayCompletions(cmd *cobra.Command, toComplete string) []string {
	out := []string{}
	for _, s := range []string{"today", "tomorrow", "yesterday"} {
		if strings.HasPrefix(s, toComplete) {
			out = append(out, s)
		}
	}
	s, err := store.LoadSettings()
	if err != nil {
		return out
	}
	p, err := store.Open(cmd.Context(), s)
	if err != nil {
		return out
	}
	defer p.Close()
	days, err := p.Days(cmd.Context())
	if err != nil {
		return out
	}
	for _, d := range days {
		if strings.HasPrefix(d.Key(), toComplete) {
			out = append(out, d.Key())
		}
	}
	return out
}
