package options

import (
	"github.com/spf13/cobra"
)

// WindowOptions shape the window printed by list. Zero values fall back to
// the ui settings.
type WindowOptions struct {
	Calendar     bool
	OnlySelected bool
	ForwardDays  int
}

func AddWindowArgs(cmd *cobra.Command, o *WindowOptions) {
	cmd.Flags().BoolVarP(&o.Calendar, "calendar", "c", false,
		"Print the month of the selected day above the list.")
	cmd.Flags().BoolVar(&o.OnlySelected, "only-selected", false,
		"Only show the selected day.")
	cmd.Flags().IntVar(&o.ForwardDays, "forward-days", 0,
		"Calendar days filled forward from the start of the window (default from ui.forward_days).")
}
