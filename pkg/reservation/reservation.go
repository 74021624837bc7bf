// Package reservation defines the items rendered by the agenda list.
package reservation

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"tableflip.dev/agenda/pkg/day"
)

// CurrentSchema is stamped on stored reservations.
const CurrentSchema = "v1"

// Reservation is a single agenda item on a calendar day.
type Reservation struct {
	Schema  string    `json:"schema,omitempty" yaml:"-"`
	ID      string    `json:"id" yaml:"id,omitempty"`
	Day     day.Day   `json:"day" yaml:"day"`
	Title   string    `json:"title" yaml:"title"`
	Note    string    `json:"note,omitempty" yaml:"note,omitempty"`
	Start   string    `json:"start,omitempty" yaml:"start,omitempty"`
	End     string    `json:"end,omitempty" yaml:"end,omitempty"`
	Created Timestamp `json:"created" yaml:"-"`
}

// New creates a reservation with a fresh ID.
func New(d day.Day, title string) *Reservation {
	return &Reservation{
		Schema:  CurrentSchema,
		ID:      uuid.NewString(),
		Day:     d,
		Title:   strings.TrimSpace(title),
		Created: Timestamp{Time: time.Now()},
	}
}

// EnsureID assigns an ID when the reservation has none.
func (r *Reservation) EnsureID() {
	if strings.TrimSpace(r.ID) == "" {
		r.ID = uuid.NewString()
	}
}

// TimeRange renders the start/end pair, or "" when unset.
func (r *Reservation) TimeRange() string {
	switch {
	case r.Start != "" && r.End != "":
		return r.Start + "-" + r.End
	case r.Start != "":
		return r.Start
	default:
		return ""
	}
}

// Row returns the columns used by printers.
func (r *Reservation) Row() (string, string, string) {
	return r.TimeRange(), r.Title, r.Note
}

func (r *Reservation) String() string {
	if tr := r.TimeRange(); tr != "" {
		return fmt.Sprintf("%s %s", tr, r.Title)
	}
	return r.Title
}

// Equal reports whether two reservations carry the same content.
func (r Reservation) Equal(o Reservation) bool {
	return r.ID == o.ID &&
		r.Day.Equal(o.Day) &&
		r.Title == o.Title &&
		r.Note == o.Note &&
		r.Start == o.Start &&
		r.End == o.End
}

// ValidClock reports whether v is empty or an HH:MM clock value.
func ValidClock(v string) bool {
	if v == "" {
		return true
	}
	_, err := time.Parse("15:04", v)
	return err == nil
}

// Sort orders reservations by start time, then creation, then ID.
func Sort(list []Reservation) {
	less := func(a, b Reservation) bool {
		if a.Start != b.Start {
			if a.Start == "" {
				return false
			}
			if b.Start == "" {
				return true
			}
			return a.Start < b.Start
		}
		if !a.Created.Equal(b.Created.Time) {
			return a.Created.Before(b.Created.Time)
		}
		return a.ID < b.ID
	}
	sort.SliceStable(list, func(i, j int) bool {
		return less(list[i], list[j])
	})
}
