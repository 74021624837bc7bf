package agenda

import (
	"tableflip.dev/agenda/pkg/day"
	"tableflip.dev/agenda/pkg/reservation"
)

// Source is a read-only view over day-keyed reservations. A key that is
// absent means the day is not loaded yet; a present key with no items means
// the day is loaded and empty.
type Source interface {
	Lookup(key string) (items []reservation.Reservation, present bool)
}

// MapSource is a Source over a plain map. The nil map knows no days.
type MapSource map[string][]reservation.Reservation

// Lookup implements Source.
func (m MapSource) Lookup(key string) ([]reservation.Reservation, bool) {
	items, ok := m[key]
	return items, ok
}

// Known reports whether src has loaded d.
func Known(src Source, d day.Day) bool {
	if src == nil || d.IsZero() {
		return false
	}
	_, ok := src.Lookup(d.Key())
	return ok
}

// Add appends r under its day, marking the day known.
func (m MapSource) Add(r reservation.Reservation) {
	key := r.Day.Key()
	m[key] = append(m[key], r)
}

// MarkKnown records d as loaded without adding items.
func (m MapSource) MarkKnown(d day.Day) {
	if _, ok := m[d.Key()]; !ok {
		m[d.Key()] = []reservation.Reservation{}
	}
}
