package list

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/fatih/color"

	"tableflip.dev/agenda/pkg/day"
	"tableflip.dev/agenda/pkg/reservation"
	"tableflip.dev/agenda/pkg/store"
)

func seeded(t *testing.T) store.Persistence {
	t.Helper()
	p, err := store.Load(&store.Settings{Path: t.TempDir()})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	ctx := context.Background()
	for _, key := range []string{"2024-07-01", "2024-07-02", "2024-07-04"} {
		r := reservation.New(day.MustParse(key), "visit "+key)
		if err := p.Store(ctx, r); err != nil {
			t.Fatalf("store: %v", err)
		}
	}
	if err := p.EnsureDay(ctx, day.MustParse("2024-07-03")); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	return p
}

func TestListJSON(t *testing.T) {
	var buf bytes.Buffer
	l := &List{Day: day.MustParse("2024-07-03"), JSON: true, Persistence: seeded(t), Out: &buf}
	if err := l.Do(context.Background()); err != nil {
		t.Fatalf("list: %v", err)
	}
	var doc WindowJSON
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("decode: %v\n%s", err, buf.String())
	}
	if !doc.Loaded || doc.CountBefore != 2 || len(doc.Days) != 4 {
		t.Fatalf("unexpected window: %+v", doc)
	}
	if !doc.Days[2].Selected || len(doc.Days[2].Reservations) != 0 {
		t.Fatalf("expected the selected day to be the empty 3rd: %+v", doc.Days[2])
	}
}

func TestListPretty(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	l := &List{Day: day.MustParse("2024-07-04"), Calendar: true, Persistence: seeded(t), Out: &buf}
	if err := l.Do(context.Background()); err != nil {
		t.Fatalf("list: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"July 2024", "Su Mo Tu We Th Fr Sa", "> July 4, 2024 - 1 reservation", "visit 2024-07-01"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in:\n%s", want, out)
		}
	}
}

func TestListOnlySelected(t *testing.T) {
	var buf bytes.Buffer
	l := &List{Day: day.MustParse("2024-07-02"), JSON: true, OnlySelected: true, Persistence: seeded(t), Out: &buf}
	if err := l.Do(context.Background()); err != nil {
		t.Fatalf("list: %v", err)
	}
	var doc WindowJSON
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(doc.Days) != 1 || doc.Days[0].Day != "2024-07-02" {
		t.Fatalf("expected just the 2nd, got %+v", doc.Days)
	}
}
