package snake

import (
	"fmt"
	"io"
	"strconv"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// PromptFlagBool asks a yes/no question for f. An empty answer keeps the
// default and returns "".
func PromptFlagBool(cmd *cobra.Command, f *pflag.Flag) (string, error) {
	label := fmt.Sprintf("%s (true/false)", f.Usage)
	if def, err := ParseBool(f.DefValue); err == nil {
		if def {
			label = fmt.Sprintf("%s ([true]/false)", f.Usage)
		} else {
			label = fmt.Sprintf("%s (true/[false])", f.Usage)
		}
	}

	prompt := promptui.Prompt{
		Label:     label,
		Templates: templates(),
		Validate: func(input string) error {
			if input == "" {
				return nil
			}
			_, err := ParseBool(input)
			return err
		},
		Stdin:  io.NopCloser(cmd.InOrStdin()),
		Stdout: NopCloser(cmd.OutOrStdout()),
	}

	result, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("%s: %w", asFlags(f), err)
	}
	if result == "" {
		return "", nil
	}
	b, _ := ParseBool(result)
	return strconv.FormatBool(b), nil
}

// ParseBool is strconv.ParseBool with the addition of Yes/No parsing.
func ParseBool(str string) (bool, error) {
	switch str {
	case "1", "t", "T", "true", "TRUE", "True", "y", "Y", "yes", "YES", "Yes":
		return true, nil
	case "0", "f", "F", "false", "FALSE", "False", "n", "N", "no", "NO", "No":
		return false, nil
	}
	return false, &strconv.NumError{Func: "ParseBool", Num: str, Err: strconv.ErrSyntax}
}
