package options

import (
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/agenda/pkg/day"
)

// OnOptions selects a day.
type OnOptions struct {
	OnString string
}

func AddOnArgs(cmd *cobra.Command, o *OnOptions) {
	cmd.Flags().StringVar(&o.OnString, "on", "",
		`Specify a day, example: --on=2024-07-04, --on=tomorrow, --on=+3 or --on="Jul 4".`)
}

// GetDay resolves --on against today. Unset means today.
func (o *OnOptions) GetDay(today day.Day) (day.Day, error) {
	if strings.TrimSpace(o.OnString) == "" {
		return today, nil
	}
	return day.ParseLoose(o.OnString, today)
}
