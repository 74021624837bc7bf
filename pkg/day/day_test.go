package day

import (
	"errors"
	"testing"
	"time"
)

func TestParseAndKey(t *testing.T) {
	d, err := Parse("2024-07-04")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d.Key() != "2024-07-04" {
		t.Fatalf("expected key 2024-07-04, got %q", d.Key())
	}
	if d.String() != "July 4, 2024" {
		t.Fatalf("unexpected label %q", d.String())
	}
	if _, err := Parse("07/04/2024"); !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
}

func TestArithmetic(t *testing.T) {
	tests := []struct {
		name string
		got  Day
		want string
	}{
		{name: "next day", got: MustParse("2024-07-31").AddDays(1), want: "2024-08-01"},
		{name: "leap day", got: MustParse("2024-02-28").AddDays(1), want: "2024-02-29"},
		{name: "previous month", got: MustParse("2024-03-15").AddMonths(-1), want: "2024-02-01"},
		{name: "year rollover", got: MustParse("2024-12-10").AddMonths(1), want: "2025-01-01"},
		{name: "month start", got: MustParse("2024-12-10").MonthStart(), want: "2024-12-01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got.Key() != tt.want {
				t.Fatalf("got %s, want %s", tt.got.Key(), tt.want)
			}
		})
	}
}

func TestComparisons(t *testing.T) {
	a := New(2024, time.July, 1)
	b := Of(time.Date(2024, time.July, 3, 23, 59, 0, 0, time.Local))
	if !a.Before(b) || b.Before(a) {
		t.Fatalf("expected %s before %s", a, b)
	}
	if !a.SameMonth(b) {
		t.Fatalf("expected same month")
	}
	if a.SameMonth(New(2025, time.July, 1)) {
		t.Fatalf("different years must not be the same month")
	}
	if b.Sub(a) != 2 {
		t.Fatalf("expected 2 days apart, got %d", b.Sub(a))
	}
	if New(2024, time.February, 10).DaysInMonth() != 29 {
		t.Fatalf("expected 29 days in February 2024")
	}
}

func TestTextRoundTrip(t *testing.T) {
	var d Day
	if err := d.UnmarshalText([]byte("2024-07-04")); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	b, err := d.MarshalText()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != "2024-07-04" {
		t.Fatalf("unexpected text %q", b)
	}
}

func TestParseLoose(t *testing.T) {
	now := MustParse("2024-07-10")
	tests := []struct {
		in   string
		want string
	}{
		{in: "today", want: "2024-07-10"},
		{in: "tomorrow", want: "2024-07-11"},
		{in: "yesterday", want: "2024-07-09"},
		{in: "+3", want: "2024-07-13"},
		{in: "-10", want: "2024-06-30"},
		{in: "2025-01-02", want: "2025-01-02"},
		{in: "July 4, 2023", want: "2023-07-04"},
		{in: "Aug 2", want: "2024-08-02"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLoose(tt.in, now)
			if err != nil {
				t.Fatalf("parse %q: %v", tt.in, err)
			}
			if got.Key() != tt.want {
				t.Fatalf("got %s, want %s", got.Key(), tt.want)
			}
		})
	}
	if _, err := ParseLoose("someday", now); !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
}
