// Package add stores a single reservation from the command line.
package add

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"tableflip.dev/agenda/pkg/day"
	"tableflip.dev/agenda/pkg/printers"
	"tableflip.dev/agenda/pkg/reservation"
	"tableflip.dev/agenda/pkg/store"
)

var (
	// ErrTitleRequired is returned for an empty title.
	ErrTitleRequired = errors.New("add: title required")
	// ErrInvalidClock is returned when start or end is not HH:MM.
	ErrInvalidClock = errors.New("add: start and end must be HH:MM")
)

type Add struct {
	Day   day.Day
	Title string
	Note  string
	Start string
	End   string

	Persistence store.Persistence
	Out         io.Writer
}

func (n *Add) Do(ctx context.Context) error {
	if strings.TrimSpace(n.Title) == "" {
		return ErrTitleRequired
	}
	if !reservation.ValidClock(n.Start) || !reservation.ValidClock(n.End) {
		return fmt.Errorf("%w: %q %q", ErrInvalidClock, n.Start, n.End)
	}
	if n.Day.IsZero() {
		n.Day = day.Today()
	}

	r := reservation.New(n.Day, n.Title)
	r.Note = strings.TrimSpace(n.Note)
	r.Start = n.Start
	r.End = n.End

	pp := printers.PrettyPrint{Out: n.Out}
	if n.Persistence == nil {
		pp.TitleWithCount(n.Day.String(), 1)
		pp.Day(true, *r)
		return nil
	}
	if err := n.Persistence.Store(ctx, r); err != nil {
		return err
	}
	all, known, err := n.Persistence.List(ctx, n.Day)
	if err != nil {
		return err
	}
	pp.TitleWithCount(n.Day.String(), len(all))
	pp.Day(known, all...)
	return nil
}
