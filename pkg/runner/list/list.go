// Package list prints the agenda window around a day.
package list

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/agenda/pkg/agenda"
	"tableflip.dev/agenda/pkg/day"
	"tableflip.dev/agenda/pkg/printers"
	"tableflip.dev/agenda/pkg/reservation"
	"tableflip.dev/agenda/pkg/store"
)

// List prints the same window the list view would show for Day.
type List struct {
	Day          day.Day
	Calendar     bool
	JSON         bool
	ShowID       bool
	OnlySelected bool
	ForwardDays  int

	Persistence store.Persistence
	Out         io.Writer
}

// GroupJSON is the --json form of one window row.
type GroupJSON struct {
	Day          string                    `json:"day"`
	Selected     bool                      `json:"selected,omitempty"`
	Reservations []reservation.Reservation `json:"reservations"`
}

// WindowJSON is the --json document.
type WindowJSON struct {
	Selected    string      `json:"selected"`
	Loaded      bool        `json:"loaded"`
	CountBefore int         `json:"countBefore"`
	Days        []GroupJSON `json:"days"`
}

func (l *List) Do(ctx context.Context) error {
	if l.Persistence == nil {
		return errors.New("can not list, no persistence")
	}
	if l.Day.IsZero() {
		l.Day = day.Today()
	}
	out := l.Out
	if out == nil {
		out = color.Output
	}

	src, err := l.Persistence.Snapshot(ctx)
	if err != nil {
		return err
	}
	res := agenda.BuildWith(nil, l.Day, l.Day.MonthStart(), src, agenda.BuildOptions{
		ForwardDays:  l.ForwardDays,
		OnlySelected: l.OnlySelected,
	})

	if l.JSON {
		doc := WindowJSON{
			Selected:    l.Day.Key(),
			Loaded:      agenda.Known(src, l.Day),
			CountBefore: res.CountBefore,
			Days:        make([]GroupJSON, 0, len(res.Window)),
		}
		for _, g := range res.Window {
			doc.Days = append(doc.Days, GroupJSON{
				Day:          g.Day.Key(),
				Selected:     g.Day.Equal(l.Day),
				Reservations: g.Items,
			})
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	}

	pp := printers.PrettyPrint{ShowID: l.ShowID, Out: out}
	if l.Calendar {
		pp.Calendar(l.Day, src, l.Day)
	}
	pp.Window(res.Window, l.Day)
	return nil
}
