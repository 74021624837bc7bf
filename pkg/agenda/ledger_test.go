package agenda

import (
	"math"
	"math/rand"
	"testing"
)

func TestLedgerRecordOutOfOrder(t *testing.T) {
	var l Ledger
	l.Record(2, 40)
	l.Record(0, 50)
	if l.IsComplete(3) {
		t.Fatalf("row 1 is missing")
	}
	l.Record(1, 80)
	if !l.IsComplete(3) {
		t.Fatalf("expected complete ledger")
	}
	if got := l.CumulativeBefore(2); got != 130 {
		t.Fatalf("expected 130, got %v", got)
	}
	if l.Len() != 3 {
		t.Fatalf("expected 3 rows, got %d", l.Len())
	}
}

func TestLedgerRecordIsIdempotent(t *testing.T) {
	var l Ledger
	if !l.Record(0, 10) {
		t.Fatalf("first record should change the ledger")
	}
	if l.Record(0, 10) {
		t.Fatalf("repeated record should not change the ledger")
	}
	if !l.Record(0, 12) {
		t.Fatalf("a revised height should replace the old one")
	}
	if h, _ := l.Height(0); h != 12 {
		t.Fatalf("expected 12, got %v", h)
	}
}

func TestLedgerRecordClamps(t *testing.T) {
	tests := []struct {
		name  string
		index int
		in    float64
		want  float64
		ok    bool
	}{
		{name: "negative height", index: 0, in: -5, want: 0, ok: true},
		{name: "nan height", index: 1, in: math.NaN(), want: 0, ok: true},
		{name: "negative index", index: -1, in: 5, ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var l Ledger
			l.Record(tt.index, tt.in)
			h, ok := l.Height(tt.index)
			if ok != tt.ok || h != tt.want {
				t.Fatalf("expected (%v, %v), got (%v, %v)", tt.want, tt.ok, h, ok)
			}
		})
	}
}

func TestLedgerCumulativeIsMonotonic(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	var l Ledger
	order := rng.Perm(50)
	for _, i := range order {
		l.Record(i, float64(rng.Intn(120)))
	}
	prev := -1.0
	for i := 0; i <= 50; i++ {
		got := l.CumulativeBefore(i)
		if got < prev {
			t.Fatalf("cumulative height dropped at %d: %v < %v", i, got, prev)
		}
		prev = got
	}
}

func TestLedgerRetain(t *testing.T) {
	var l Ledger
	for i, h := range []float64{10, 20, 30, 40} {
		l.Record(i, h)
	}
	l.Retain(3, func(i int) bool { return i != 1 })

	want := []Measurement{{10, true}, {0, false}, {30, true}}
	got := l.Snapshot()
	if len(got) != len(want) {
		t.Fatalf("expected %d slots, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("slot %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
	if l.Len() != 2 {
		t.Fatalf("expected 2 known rows, got %d", l.Len())
	}
}

func TestLedgerResetAndAverage(t *testing.T) {
	var l Ledger
	if _, ok := l.Average(); ok {
		t.Fatalf("empty ledger has no average")
	}
	l.Record(0, 10)
	l.Record(3, 30)
	if avg, _ := l.Average(); avg != 20 {
		t.Fatalf("expected 20, got %v", avg)
	}
	l.Reset()
	if l.Len() != 0 || l.IsComplete(1) {
		t.Fatalf("expected empty ledger after reset")
	}
	if _, ok := l.Height(0); ok {
		t.Fatalf("stale height survived reset")
	}
}
