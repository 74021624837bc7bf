package store

import (
	"context"
	"errors"
	"testing"

	"tableflip.dev/agenda/pkg/day"
	"tableflip.dev/agenda/pkg/reservation"
)

type testConfig struct {
	path string
}

func (t testConfig) BasePath() string {
	return t.path
}

func load(t *testing.T) Persistence {
	t.Helper()
	p, err := Load(testConfig{path: t.TempDir()})
	if err != nil {
		t.Fatalf("load persistence: %v", err)
	}
	return p
}

func TestPersistenceSnapshot(t *testing.T) {
	ctx := context.Background()
	p := load(t)

	later := reservation.New(day.MustParse("2024-07-01"), "later")
	later.Start = "15:00"
	early := reservation.New(day.MustParse("2024-07-01"), "early")
	early.Start = "09:00"
	other := reservation.New(day.MustParse("2024-07-04"), "other")
	for _, r := range []*reservation.Reservation{later, early, other} {
		if err := p.Store(ctx, r); err != nil {
			t.Fatalf("store %s: %v", r.Title, err)
		}
	}
	if err := p.EnsureDay(ctx, day.MustParse("2024-07-02")); err != nil {
		t.Fatalf("ensure day: %v", err)
	}

	src, err := p.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(src) != 3 {
		t.Fatalf("expected 3 known days, got %d: %v", len(src), src)
	}
	july1, ok := src.Lookup("2024-07-01")
	if !ok || len(july1) != 2 || july1[0].Title != "early" || july1[1].Title != "later" {
		t.Fatalf("unexpected 1st: %+v", july1)
	}
	if items, ok := src.Lookup("2024-07-02"); !ok || len(items) != 0 {
		t.Fatalf("expected the 2nd loaded and empty, got %v %v", items, ok)
	}
	if _, ok := src.Lookup("2024-07-03"); ok {
		t.Fatalf("the 3rd was never loaded")
	}

	days, err := p.Days(ctx)
	if err != nil {
		t.Fatalf("days: %v", err)
	}
	if len(days) != 3 || days[0].Key() != "2024-07-01" || days[2].Key() != "2024-07-04" {
		t.Fatalf("unexpected days %v", days)
	}
}

func TestPersistenceListAndDelete(t *testing.T) {
	ctx := context.Background()
	p := load(t)

	r := reservation.New(day.MustParse("2024-07-01"), "dentist")
	if err := p.Store(ctx, r); err != nil {
		t.Fatalf("store: %v", err)
	}
	items, known, err := p.List(ctx, r.Day)
	if err != nil || !known || len(items) != 1 || items[0].ID != r.ID {
		t.Fatalf("unexpected list: %v %v %v", items, known, err)
	}

	if err := p.Delete(ctx, *r); err != nil {
		t.Fatalf("delete: %v", err)
	}
	items, known, err = p.List(ctx, r.Day)
	if err != nil || !known || len(items) != 0 {
		t.Fatalf("deleting the last reservation keeps the day loaded: %v %v %v", items, known, err)
	}
	if err := p.Delete(ctx, *r); !errors.Is(err, ErrNoReservation) {
		t.Fatalf("expected ErrNoReservation, got %v", err)
	}

	_, known, err = p.List(ctx, day.MustParse("2024-07-09"))
	if err != nil || known {
		t.Fatalf("expected unknown day, got %v %v", known, err)
	}
}

func TestPersistenceStoreRequiresDay(t *testing.T) {
	p := load(t)
	if err := p.Store(context.Background(), &reservation.Reservation{Title: "x"}); err == nil {
		t.Fatalf("expected error for reservation without day")
	}
}

func TestKeyTransforms(t *testing.T) {
	tests := []struct {
		key    string
		dayKey string
		id     string
		ok     bool
	}{
		{key: "2024-07-01_5f0c-11", dayKey: "2024-07-01", id: "5f0c-11", ok: true},
		{key: ".days.json", ok: false},
		{key: "2024-07-01_", ok: false},
		{key: "junk_id", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			dayKey, id, ok := splitKey(tt.key)
			if ok != tt.ok || dayKey != tt.dayKey || id != tt.id {
				t.Fatalf("expected (%q, %q, %v), got (%q, %q, %v)", tt.dayKey, tt.id, tt.ok, dayKey, id, ok)
			}
			if got := pathToKeyTransform(keyToPathTransform(tt.key)); got != tt.key {
				t.Fatalf("transform round trip: expected %q, got %q", tt.key, got)
			}
		})
	}
}
