// Package printers renders reservations for the terminal.
package printers

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/agenda/pkg/agenda"
	"tableflip.dev/agenda/pkg/day"
	"tableflip.dev/agenda/pkg/reservation"
)

type PrettyPrint struct {
	ShowID bool
	// Out defaults to color.Output.
	Out io.Writer
}

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out != nil {
		return pp.Out
	}
	return color.Output
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d", count)

	switch count {
	case 1:
		_, _ = c.Fprintln(pp.out(), " reservation")
	default:
		_, _ = c.Fprintln(pp.out(), " reservations")
	}
}

// Day prints the reservations of one day. A loaded day without any prints
// "none"; an unloaded one prints "not loaded".
func (pp *PrettyPrint) Day(known bool, items ...reservation.Reservation) {
	f := color.New(color.Faint, color.Italic)
	switch {
	case !known:
		_, _ = f.Fprint(pp.out(), " not loaded\n\n")
		return
	case len(items) == 0:
		_, _ = f.Fprint(pp.out(), " none\n\n")
		return
	}

	tm := color.New(color.FgHiMagenta)
	y := color.New(color.FgHiYellow, color.Italic, color.Faint)
	n := color.New(color.Faint)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 60
	tbl.Wrap = true
	for _, r := range items {
		when, title, note := r.Row()
		if when == "" {
			when = "all day"
		}
		row := []interface{}{tm.Sprint(when), title, n.Sprint(note)}
		if pp.ShowID {
			row = append([]interface{}{y.Sprint(r.ID)}, row...)
		}
		tbl.AddRow(row...)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Window prints every group of w. The selected day is marked.
func (pp *PrettyPrint) Window(w agenda.Window, selected day.Day) {
	if len(w) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprintf(pp.out(), " %s is not loaded\n\n", selected.String())
		return
	}
	mark := color.New(color.FgHiCyan, color.Bold)
	for _, g := range w {
		if g.Day.Equal(selected) {
			_, _ = mark.Fprint(pp.out(), "> ")
		} else {
			_, _ = fmt.Fprint(pp.out(), "  ")
		}
		pp.TitleWithCount(g.Day.String(), len(g.Items))
		pp.Day(true, g.Items...)
	}
}
