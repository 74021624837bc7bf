// Package day provides the calendar-day value used to key reservations.
package day

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// LayoutKey is the string form used to key reservation sources.
	LayoutKey = "2006-01-02"
	layoutUS  = "January 2, 2006"
	layoutMon = "January 2006"
)

// ErrInvalidKey is returned when a day key can not be parsed.
var ErrInvalidKey = errors.New("day: invalid key")

// Day is a calendar day without a time of day. The zero value is not a valid
// day; see IsZero.
type Day struct {
	t time.Time
}

// New returns the day for the given date. Out of range values are normalized
// the way time.Date normalizes them.
func New(year int, month time.Month, dom int) Day {
	return Day{t: time.Date(year, month, dom, 0, 0, 0, 0, time.UTC)}
}

// Of returns the calendar day of t in t's location.
func Of(t time.Time) Day {
	return New(t.Year(), t.Month(), t.Day())
}

// Today returns the current local day.
func Today() Day {
	return Of(time.Now())
}

// Parse reads a day in LayoutKey form.
func Parse(key string) (Day, error) {
	t, err := time.Parse(LayoutKey, strings.TrimSpace(key))
	if err != nil {
		return Day{}, fmt.Errorf("%w %q: %v", ErrInvalidKey, key, err)
	}
	return Of(t), nil
}

// ParseLayout reads value with a time layout and keeps only its date.
func ParseLayout(layout, value string) (Day, error) {
	t, err := time.Parse(layout, strings.TrimSpace(value))
	if err != nil {
		return Day{}, fmt.Errorf("%w %q: %v", ErrInvalidKey, value, err)
	}
	return Of(t), nil
}

// ParseLoose accepts the key form plus a few relative and human spellings:
// "today", "tomorrow", "yesterday", "+3", "-1", "Jan 2" and "January 2, 2006".
func ParseLoose(value string, now Day) (Day, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	switch v {
	case "today", "t", ".":
		return now, nil
	case "tomorrow":
		return now.AddDays(1), nil
	case "yesterday":
		return now.AddDays(-1), nil
	}
	if len(v) > 1 && (v[0] == '+' || v[0] == '-') {
		var n int
		if _, err := fmt.Sscanf(v[1:], "%d", &n); err == nil {
			if v[0] == '-' {
				n = -n
			}
			return now.AddDays(n), nil
		}
	}
	if d, err := Parse(v); err == nil {
		return d, nil
	}
	if d, err := ParseLayout(layoutUS, value); err == nil {
		return d, nil
	}
	for _, layout := range []string{"Jan 2", "January 2"} {
		if d, err := ParseLayout(layout, value); err == nil {
			return New(now.Year(), d.Month(), d.DayOfMonth()), nil
		}
	}
	return Day{}, fmt.Errorf("%w %q", ErrInvalidKey, value)
}

// MustParse is Parse for literals; it panics on error.
func MustParse(key string) Day {
	d, err := Parse(key)
	if err != nil {
		panic(err)
	}
	return d
}

// IsZero reports whether d is the zero Day.
func (d Day) IsZero() bool { return d.t.IsZero() }

// Key returns the LayoutKey form of d.
func (d Day) Key() string { return d.t.Format(LayoutKey) }

// String renders d for humans, e.g. "July 4, 2024".
func (d Day) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(layoutUS)
}

// MonthLabel renders the month of d, e.g. "July 2024".
func (d Day) MonthLabel() string { return d.t.Format(layoutMon) }

// Time returns midnight UTC of d.
func (d Day) Time() time.Time { return d.t }

// In returns midnight of d in loc.
func (d Day) In(loc *time.Location) time.Time {
	return time.Date(d.t.Year(), d.t.Month(), d.t.Day(), 0, 0, 0, 0, loc)
}

// Year returns the year of d.
func (d Day) Year() int { return d.t.Year() }

// Month returns the month of d.
func (d Day) Month() time.Month { return d.t.Month() }

// DayOfMonth returns the day of the month, starting at 1.
func (d Day) DayOfMonth() int { return d.t.Day() }

// Weekday returns the day of the week of d.
func (d Day) Weekday() time.Weekday { return d.t.Weekday() }

// AddDays returns d moved by n days.
func (d Day) AddDays(n int) Day { return Day{t: d.t.AddDate(0, 0, n)} }

// AddMonths returns the first day of the month n months from d.
func (d Day) AddMonths(n int) Day {
	return New(d.t.Year(), d.t.Month()+time.Month(n), 1)
}

// MonthStart returns the first day of d's month.
func (d Day) MonthStart() Day { return New(d.t.Year(), d.t.Month(), 1) }

// DaysInMonth returns the number of days in d's month.
func (d Day) DaysInMonth() int {
	return New(d.t.Year(), d.t.Month()+1, 0).DayOfMonth()
}

// Before reports whether d is strictly earlier than o.
func (d Day) Before(o Day) bool { return d.t.Before(o.t) }

// After reports whether d is strictly later than o.
func (d Day) After(o Day) bool { return d.t.After(o.t) }

// Equal reports whether d and o are the same calendar day.
func (d Day) Equal(o Day) bool { return d.t.Equal(o.t) }

// SameMonth reports whether d and o fall in the same month of the same year.
func (d Day) SameMonth(o Day) bool {
	return d.t.Year() == o.t.Year() && d.t.Month() == o.t.Month()
}

// Sub returns the number of days from o to d.
func (d Day) Sub(o Day) int {
	return int(d.t.Sub(o.t).Hours() / 24)
}

// MarshalText implements encoding.TextMarshaler using the key form.
func (d Day) MarshalText() ([]byte, error) {
	if d.IsZero() {
		return []byte{}, nil
	}
	return []byte(d.Key()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Day) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = Day{}
		return nil
	}
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
