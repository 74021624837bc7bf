package agenda

import (
	"tableflip.dev/agenda/pkg/day"
	"tableflip.dev/agenda/pkg/reservation"
)

func booking(id, key, title string) reservation.Reservation {
	return reservation.Reservation{ID: id, Day: day.MustParse(key), Title: title}
}

// julySource: the 1st has one reservation, the 2nd is loaded and empty, the
// 3rd is not loaded, the 4th has one reservation.
func julySource() MapSource {
	return MapSource{
		"2024-07-01": {booking("a", "2024-07-01", "A")},
		"2024-07-02": {},
		"2024-07-04": {booking("b", "2024-07-04", "B")},
	}
}

func contiguousSource(from string, days int) MapSource {
	src := MapSource{}
	d := day.MustParse(from)
	for i := 0; i < days; i++ {
		src.Add(booking(d.Key(), d.Key(), "item "+d.Key()))
		d = d.AddDays(1)
	}
	return src
}

func keys(w Window) []string {
	out := make([]string, len(w))
	for i, g := range w {
		out[i] = g.Day.Key()
	}
	return out
}
