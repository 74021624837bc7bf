// Package ui launches the interactive agenda.
package ui

import (
	"context"
	"errors"

	"tableflip.dev/agenda/pkg/day"
	"tableflip.dev/agenda/pkg/logging"
	"tableflip.dev/agenda/pkg/store"
	teaui "tableflip.dev/agenda/pkg/tui/app"
)

type UI struct {
	Persistence store.Persistence
	Settings    store.UISettings
	// Selected is the day shown first; zero means today.
	Selected day.Day
}

func (u *UI) Do(ctx context.Context) error {
	if u.Persistence == nil {
		return errors.New("can not open the ui, no persistence")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return teaui.Run(u.Persistence, teaui.Options{
		Selected: u.Selected,
		UI:       u.Settings,
		Logger:   logging.New("tui"),
	})
}
