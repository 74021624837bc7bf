// Package calendar renders a month grid for the selected day.
package calendar

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/agenda/pkg/agenda"
	"tableflip.dev/agenda/pkg/day"
	"tableflip.dev/agenda/pkg/tui/theme"
)

// weekHeader is the Sunday-first weekday header.
const weekHeader = "Su Mo Tu We Th Fr Sa"

// Cell describes a single day rendered in the calendar.
type Cell struct {
	Day        int
	Loaded     bool
	HasEntry   bool
	IsToday    bool
	IsSelected bool
}

// Options controls calendar styling.
type Options struct {
	TitleStyle    lipgloss.Style
	HeaderStyle   lipgloss.Style
	EmptyStyle    lipgloss.Style
	UnloadedStyle lipgloss.Style
	EntryStyle    lipgloss.Style
	TodayStyle    lipgloss.Style
	SelectedStyle lipgloss.Style
	ShowTitle     bool
	ShowHeader    bool
}

// OptionsFrom builds Options from a theme.
func OptionsFrom(th theme.CalendarTheme) Options {
	return Options{
		TitleStyle:    th.Title,
		HeaderStyle:   th.Header,
		EmptyStyle:    th.Empty,
		UnloadedStyle: th.Unloaded,
		EntryStyle:    th.Entry,
		TodayStyle:    th.Today,
		SelectedStyle: th.Selected,
		ShowTitle:     true,
		ShowHeader:    true,
	}
}

// DefaultOptions returns the styling used for calendar rendering.
func DefaultOptions() Options {
	return OptionsFrom(theme.Default().Calendar)
}

// Cells describes every day of month from src.
func Cells(month, selected, today day.Day, src agenda.Source) []Cell {
	first := month.MonthStart()
	n := first.DaysInMonth()
	cells := make([]Cell, 0, n)
	for i := 0; i < n; i++ {
		d := first.AddDays(i)
		cell := Cell{
			Day:        d.DayOfMonth(),
			IsToday:    d.Equal(today),
			IsSelected: d.Equal(selected),
		}
		if src != nil {
			items, ok := src.Lookup(d.Key())
			cell.Loaded = ok
			cell.HasEntry = len(items) > 0
		}
		cells = append(cells, cell)
	}
	return cells
}

// Render produces a multi-line calendar string for the given month.
func Render(month day.Day, cells []Cell, opts Options) string {
	if month.IsZero() {
		return ""
	}

	first := month.MonthStart()
	daysInMonth := first.DaysInMonth()

	byDay := make(map[int]Cell, len(cells))
	for _, c := range cells {
		if c.Day >= 1 && c.Day <= daysInMonth {
			byDay[c.Day] = c
		}
	}

	var lines []string
	if opts.ShowTitle {
		title := first.MonthLabel()
		pad := (len(weekHeader) - len(title)) / 2
		if pad < 0 {
			pad = 0
		}
		lines = append(lines, strings.Repeat(" ", pad)+opts.TitleStyle.Render(title))
	}
	if opts.ShowHeader {
		lines = append(lines, opts.HeaderStyle.Render(weekHeader))
	}

	startOffset := int(first.Weekday())
	totalCells := startOffset + daysInMonth
	rows := (totalCells + 6) / 7

	for row := 0; row < rows; row++ {
		var out []string
		for col := 0; col < 7; col++ {
			cellIdx := row*7 + col
			d := cellIdx - startOffset + 1
			if d < 1 || d > daysInMonth {
				out = append(out, opts.EmptyStyle.Render("  "))
				continue
			}
			out = append(out, renderCell(byDay[d], d, opts))
		}
		lines = append(lines, strings.Join(out, " "))
	}

	return strings.Join(lines, "\n")
}

func renderCell(info Cell, d int, opts Options) string {
	text := fmt.Sprintf("%2d", d)

	style := opts.UnloadedStyle
	if info.Loaded {
		style = opts.EmptyStyle
	}
	if info.HasEntry {
		style = opts.EntryStyle
	}
	if info.IsToday {
		style = style.Inherit(opts.TodayStyle)
	}
	if info.IsSelected {
		style = opts.SelectedStyle.Inherit(style)
	}
	return style.Render(text)
}

// ParseMonth attempts to parse "January 2006" and "2006-01" month names.
func ParseMonth(name string) (day.Day, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return day.Day{}, false
	}
	for _, layout := range []string{"January 2006", "2006-01"} {
		if d, err := day.ParseLayout(layout, name); err == nil {
			return d.MonthStart(), true
		}
	}
	return day.Day{}, false
}
