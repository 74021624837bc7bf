package snake

import (
	"fmt"
	"io"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// PromptFlagString asks for a value for f. An empty answer keeps the
// default and returns "".
func PromptFlagString(cmd *cobra.Command, f *pflag.Flag) (string, error) {
	label := f.Usage
	if f.DefValue != "" {
		label = fmt.Sprintf("%s [%s]", f.Usage, f.DefValue)
	}

	prompt := promptui.Prompt{
		Label:     label,
		Templates: templates(),
		Stdin:     io.NopCloser(cmd.InOrStdin()),
		Stdout:    NopCloser(cmd.OutOrStdout()),
	}

	result, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("%s: %w", asFlags(f), err)
	}
	return result, nil
}
