// Package snake fills in cobra flags interactively with promptui.
package snake

import (
	"fmt"
	"io"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Skip lists flag names PromptFlags never asks about.
var Skip = map[string]bool{
	"interactive": true,
	"help":        true,
	"json":        true,
}

// PromptFlags asks for every visible flag of cmd the user did not set on the
// command line and writes the answers back into the flag set. Empty answers
// keep the default.
func PromptFlags(cmd *cobra.Command) error {
	var fs []*pflag.Flag
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Hidden || f.Changed || Skip[f.Name] {
			return
		}
		fs = append(fs, f)
	})

	for _, f := range fs {
		var (
			answer string
			err    error
		)
		switch t := f.Value.Type(); t {
		case "bool":
			answer, err = PromptFlagBool(cmd, f)
		case "string":
			answer, err = PromptFlagString(cmd, f)
		default:
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "%q flag type not yet supported, skipping %s\n", t, asFlags(f))
			continue
		}
		if err != nil {
			return err
		}
		if answer == "" {
			continue
		}
		if err := cmd.Flags().Set(f.Name, answer); err != nil {
			return fmt.Errorf("%s: %w", asFlags(f), err)
		}
	}
	return nil
}

// PromptText asks for a single required line of text.
func PromptText(cmd *cobra.Command, label string) (string, error) {
	prompt := promptui.Prompt{
		Label:     label,
		Templates: templates(),
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return fmt.Errorf("%s is required", label)
			}
			return nil
		},
		Stdin:  io.NopCloser(cmd.InOrStdin()),
		Stdout: NopCloser(cmd.OutOrStdout()),
	}
	result, err := prompt.Run()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(result), nil
}

func templates() *promptui.PromptTemplates {
	return &promptui.PromptTemplates{
		Prompt:  "{{ . }}: ",
		Valid:   "{{ . | green }}: ",
		Invalid: "{{ . | red }}: ",
		Success: "{{ . | bold }}: ",
	}
}

func asFlags(f *pflag.Flag) string {
	if f.Shorthand != "" {
		return fmt.Sprintf("--%s, -%s", f.Name, f.Shorthand)
	}
	return fmt.Sprintf("--%s", f.Name)
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// NopCloser wraps w so promptui can own it without closing the command's
// output.
func NopCloser(w io.Writer) io.WriteCloser {
	return nopWriteCloser{Writer: w}
}
