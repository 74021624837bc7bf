package agenda

import "tableflip.dev/agenda/pkg/day"

const (
	// A row becomes the current row once 70% of it has scrolled past the top.
	currentRowWeight = 0.7
	// Bounds of the suppression zone inside a row taller than the viewport.
	suppressFrom = 0.1
	suppressTo   = 0.95
)

// DayIndex returns the row of d in w, or -1.
func DayIndex(w Window, d day.Day) int { return w.IndexOf(d) }

// DayOfMonthIndex is the row approximation "day N is row N-1". It only holds
// when w starts on the first of d's month with no gaps, which is true right
// after a month rebuild and not in general. Prefer DayIndex.
func DayOfMonthIndex(d day.Day) int { return d.DayOfMonth() - 1 }

// DayToOffset returns the scroll offset of the row for d: the summed heights
// of the rows above it. When d has no row the nearest following row is used;
// ok is false only for an empty window.
func DayToOffset(d day.Day, w Window, l *Ledger) (offset float64, ok bool) {
	idx := w.IndexOf(d)
	if idx < 0 {
		idx = w.NearestIndex(d)
	}
	if idx < 0 {
		return 0, false
	}
	return l.CumulativeBefore(idx), true
}

// SeedOffset estimates the offset of row rows before any heights are known,
// using recorded heights where present and estimate elsewhere. When the
// ledger has measurements their mean replaces estimate.
func SeedOffset(rows int, l *Ledger, estimate float64) float64 {
	if avg, ok := l.Average(); ok {
		estimate = avg
	}
	total := 0.0
	for i := 0; i < rows; i++ {
		if h, ok := l.Height(i); ok {
			total += h
			continue
		}
		total += estimate
	}
	return total
}

// Detection is the current row derived from a scroll offset.
type Detection struct {
	Row       int
	Day       day.Day
	RowOffset float64
	RowHeight float64
	// Suppress is set when the offset sits inside a row taller than the
	// viewport, away from both of its edges.
	Suppress bool
}

// OffsetToDay finds the current row for scroll offset y: the first row whose
// top plus 70% of its height reaches y. Rows without a measurement add no
// height and are never current. ok is false once y is past every measured
// row. viewport is the visible height; zero or less disables suppression.
func OffsetToDay(y float64, w Window, l *Ledger, viewport float64) (Detection, bool) {
	offset := 0.0
	for r := range w {
		h, known := l.Height(r)
		if known && offset+h*currentRowWeight >= y {
			return Detection{
				Row:       r,
				Day:       w[r].Day,
				RowOffset: offset,
				RowHeight: h,
				Suppress:  inSuppressionZone(y, offset, h, viewport),
			}, true
		}
		offset += h
	}
	return Detection{Row: -1}, false
}

func inSuppressionZone(y, offset, height, viewport float64) bool {
	if viewport <= 0 || viewport >= height {
		return false
	}
	return offset+height*suppressFrom <= y && y <= offset+height*suppressTo
}
