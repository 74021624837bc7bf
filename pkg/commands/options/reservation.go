package options

import (
	"github.com/spf13/cobra"
)

// ReservationOptions
type ReservationOptions struct {
	Title string
	Note  string
	Start string
	End   string
}

func AddReservationArgs(cmd *cobra.Command, o *ReservationOptions) {
	cmd.Flags().StringVar(&o.Note, "note", "",
		"Free text shown under the title.")
	cmd.Flags().StringVar(&o.Start, "start", "",
		"Start time as HH:MM.")
	cmd.Flags().StringVar(&o.End, "end", "",
		"End time as HH:MM.")
}
