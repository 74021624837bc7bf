// Package agenda keeps a day-grouped reservation list and its scroll position
// in step with the selected calendar day.
//
// The pieces, leaves first: a Source of day-keyed reservations, the window
// Build step that turns a Source into per-day Groups, a Ledger of measured
// row heights, the offset/day conversions in sync.go, and the Controller that
// owns all of it and drives a Widget.
package agenda

import (
	"tableflip.dev/agenda/pkg/day"
	"tableflip.dev/agenda/pkg/reservation"
)

// DefaultForwardDays is how many calendar days Build fills past its cursor.
const DefaultForwardDays = 31

// Group holds the reservations of one calendar day. Date and Day are the same
// day; both are kept for consumers that name it either way.
type Group struct {
	Date  day.Day
	Day   day.Day
	Items []reservation.Reservation
}

// Placeholder reports whether g is a loaded day without reservations.
func (g Group) Placeholder() bool { return len(g.Items) == 0 }

// Equal reports whether g and o describe the same day with the same items.
func (g Group) Equal(o Group) bool {
	if !g.Day.Equal(o.Day) || !g.Date.Equal(o.Date) || len(g.Items) != len(o.Items) {
		return false
	}
	for i := range g.Items {
		if !g.Items[i].Equal(o.Items[i]) {
			return false
		}
	}
	return true
}

// Window is the ordered list of groups backing the rendered rows; index i is
// row i.
type Window []Group

// IndexOf returns the row of d, or -1.
func (w Window) IndexOf(d day.Day) int {
	for i := range w {
		if w[i].Day.Equal(d) {
			return i
		}
	}
	return -1
}

// NearestIndex returns the row of d, else the first row after d, else the
// last row. It returns -1 for an empty window.
func (w Window) NearestIndex(d day.Day) int {
	if len(w) == 0 {
		return -1
	}
	for i := range w {
		if !w[i].Day.Before(d) {
			return i
		}
	}
	return len(w) - 1
}

// Equal reports whether both windows hold equal groups in the same order.
func (w Window) Equal(o Window) bool {
	if len(w) != len(o) {
		return false
	}
	for i := range w {
		if !w[i].Equal(o[i]) {
			return false
		}
	}
	return true
}

// BuildOptions tunes Build.
type BuildOptions struct {
	// ForwardDays is the span filled past the cursor; zero means
	// DefaultForwardDays.
	ForwardDays int
	// OnlySelected limits the window to the selected day.
	OnlySelected bool
}

// BuildResult is the outcome of BuildWith.
type BuildResult struct {
	Window Window
	// CountBefore is the number of groups strictly before the selected day.
	CountBefore int
	// Restarted is set when the catch-up walk over the existing window hit an
	// unloaded day and the window was rebuilt from the month anchor.
	Restarted bool
}

// Build derives the window for selected, reusing existing as the starting
// point. See BuildWith.
func Build(existing Window, selected, anchor day.Day, src Source) (Window, int) {
	res := BuildWith(existing, selected, anchor, src, BuildOptions{})
	return res.Window, res.CountBefore
}

// BuildWith derives a new window.
//
// With a non-empty existing window the walk starts at its first day and
// appends one group per day until it reaches selected. Meeting an unloaded
// day there throws away what was gathered and starts over from anchor, as if
// existing were empty. From the cursor it then fills opts.ForwardDays days,
// skipping unloaded days.
func BuildWith(existing Window, selected, anchor day.Day, src Source, opts BuildOptions) BuildResult {
	if src == nil || selected.IsZero() {
		return BuildResult{}
	}
	if opts.OnlySelected {
		g, ok := groupFor(selected, src)
		if !ok {
			return BuildResult{}
		}
		return BuildResult{Window: Window{g}}
	}

	span := opts.ForwardDays
	if span <= 0 {
		span = DefaultForwardDays
	}
	if anchor.IsZero() {
		anchor = selected.MonthStart()
	}

	var (
		out       Window
		restarted bool
	)
	cursor := anchor
	if len(existing) > 0 {
		cursor = existing[0].Day
		if selected.Before(cursor) {
			// Selected moved behind the window start; begin again at the anchor.
			cursor = anchor
			restarted = true
		}
		for !restarted && cursor.Before(selected) {
			g, ok := groupFor(cursor, src)
			if !ok {
				out = nil
				cursor = anchor
				restarted = true
				break
			}
			out = append(out, g)
			cursor = cursor.AddDays(1)
		}
	}

	for i := 0; i < span; i++ {
		if g, ok := groupFor(cursor, src); ok {
			out = append(out, g)
		}
		cursor = cursor.AddDays(1)
	}

	before := 0
	for _, g := range out {
		if g.Day.Before(selected) {
			before++
		}
	}
	return BuildResult{Window: out, CountBefore: before, Restarted: restarted}
}

func groupFor(d day.Day, src Source) (Group, bool) {
	items, ok := src.Lookup(d.Key())
	if !ok {
		return Group{}, false
	}
	return Group{
		Date:  d,
		Day:   d,
		Items: append([]reservation.Reservation{}, items...),
	}, true
}
