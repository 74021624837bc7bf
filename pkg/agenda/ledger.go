package agenda

import "math"

// Ledger records measured row heights by row index. Measurements may arrive
// in any order and may be revised; a later Record for the same index wins.
// The zero value is an empty ledger.
type Ledger struct {
	heights []float64
	known   []bool
	count   int
}

// Record stores height for the row at index. Negative indices are ignored
// and negative or NaN heights are stored as zero. It reports whether the stored
// value changed.
func (l *Ledger) Record(index int, height float64) bool {
	if index < 0 {
		return false
	}
	if height < 0 || math.IsNaN(height) {
		height = 0
	}
	if index >= len(l.heights) {
		grow := index + 1 - len(l.heights)
		l.heights = append(l.heights, make([]float64, grow)...)
		l.known = append(l.known, make([]bool, grow)...)
	}
	if l.known[index] && l.heights[index] == height {
		return false
	}
	if !l.known[index] {
		l.count++
	}
	l.known[index] = true
	l.heights[index] = height
	return true
}

// Height returns the recorded height for index.
func (l *Ledger) Height(index int) (float64, bool) {
	if index < 0 || index >= len(l.known) || !l.known[index] {
		return 0, false
	}
	return l.heights[index], true
}

// Len returns how many rows have a recorded height.
func (l *Ledger) Len() int { return l.count }

// IsComplete reports whether every row in [0, rows) has a recorded height.
func (l *Ledger) IsComplete(rows int) bool {
	if rows > len(l.known) {
		return false
	}
	for i := 0; i < rows; i++ {
		if !l.known[i] {
			return false
		}
	}
	return true
}

// CumulativeBefore sums the recorded heights of rows [0, index). Rows
// without a measurement count as zero.
func (l *Ledger) CumulativeBefore(index int) float64 {
	if index > len(l.heights) {
		index = len(l.heights)
	}
	total := 0.0
	for i := 0; i < index; i++ {
		total += l.heights[i]
	}
	return total
}

// Average returns the mean of the recorded heights.
func (l *Ledger) Average() (float64, bool) {
	if l.count == 0 {
		return 0, false
	}
	total := 0.0
	for i, ok := range l.known {
		if ok {
			total += l.heights[i]
		}
	}
	return total / float64(l.count), true
}

// Reset forgets every measurement.
func (l *Ledger) Reset() {
	l.heights = l.heights[:0]
	l.known = l.known[:0]
	l.count = 0
}

// Retain drops rows at or past rows and any row for which keep returns
// false.
func (l *Ledger) Retain(rows int, keep func(index int) bool) {
	if rows < 0 {
		rows = 0
	}
	if rows < len(l.heights) {
		l.heights = l.heights[:rows]
		l.known = l.known[:rows]
	}
	l.count = 0
	for i := range l.known {
		if l.known[i] && keep != nil && !keep(i) {
			l.known[i] = false
			l.heights[i] = 0
		}
		if l.known[i] {
			l.count++
		}
	}
}

// Snapshot copies the ledger into a slice; unmeasured rows are reported
// with Known false.
func (l *Ledger) Snapshot() []Measurement {
	out := make([]Measurement, len(l.heights))
	for i := range l.heights {
		out[i] = Measurement{Height: l.heights[i], Known: l.known[i]}
	}
	return out
}

// Measurement is one ledger slot.
type Measurement struct {
	Height float64
	Known  bool
}
