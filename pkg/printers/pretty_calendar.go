package printers

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/agenda/pkg/agenda"
	"tableflip.dev/agenda/pkg/day"
)

const width = len("11 12 13 14 15 16 17") // an example week

// Calendar prints the month of then. Days with reservations are bold, loaded
// days without any are plain, unloaded days are faint. The selected day is
// reversed.
func (pp *PrettyPrint) Calendar(then day.Day, src agenda.Source, selected day.Day) {
	first := then.MonthStart()
	out := pp.out()

	tf := color.New(color.FgWhite, color.Italic)
	m := first.MonthLabel()
	mid := (width - len(m)) / 2
	if mid < 0 {
		mid = 0
	}
	_, _ = tf.Fprintf(out, "%s%s\n", strings.Repeat(" ", mid), m)
	_, _ = color.New(color.Faint).Fprintln(out, "Su Mo Tu We Th Fr Sa")

	d := first.Weekday()

	// Pad out the start of the month.
	for i := time.Sunday; i < d; i++ {
		_, _ = fmt.Fprint(out, "   ")
	}

	unloaded := color.New(color.Faint, color.FgWhite)
	empty := color.New(color.FgWhite)
	busy := color.New(color.Bold, color.FgHiWhite)

	days := first.DaysInMonth()
	for i := 0; i < days; i++ {
		cur := first.AddDays(i)
		printer := unloaded
		if src != nil {
			if items, ok := src.Lookup(cur.Key()); ok {
				printer = empty
				if len(items) > 0 {
					printer = busy
				}
			}
		}
		if cur.Equal(selected) {
			printer = color.New(color.ReverseVideo)
			printer.Add(color.Bold)
		}
		_, _ = printer.Fprintf(out, "%2d", i+1)

		d++
		if d > time.Saturday || i == days-1 {
			d = time.Sunday
			_, _ = fmt.Fprint(out, "\n")
		} else {
			_, _ = fmt.Fprint(out, " ")
		}
	}
	_, _ = fmt.Fprint(out, "\n")
}
