// Package mark flags days as loaded so the agenda shows them even without
// reservations.
package mark

import (
	"context"
	"errors"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/agenda/pkg/day"
	"tableflip.dev/agenda/pkg/store"
)

type Mark struct {
	Days []day.Day

	Persistence store.Persistence
	Out         io.Writer
}

func (m *Mark) Do(ctx context.Context) error {
	if m.Persistence == nil {
		return errors.New("can not mark, no persistence")
	}
	if len(m.Days) == 0 {
		return errors.New("mark: at least one day required")
	}
	out := m.Out
	if out == nil {
		out = color.Output
	}
	c := color.New(color.Faint)
	for _, d := range m.Days {
		if err := m.Persistence.EnsureDay(ctx, d); err != nil {
			return err
		}
		_, _ = c.Fprintf(out, "%s loaded\n", d.String())
	}
	return nil
}
