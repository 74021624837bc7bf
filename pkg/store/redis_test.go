package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"tableflip.dev/agenda/pkg/day"
	"tableflip.dev/agenda/pkg/reservation"
)

// Set AGENDA_TEST_REDIS_ADDR to run against a live redis.
func redisForTest(t *testing.T) Persistence {
	t.Helper()
	addr := os.Getenv("AGENDA_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("AGENDA_TEST_REDIS_ADDR not set")
	}
	p, err := NewRedis(context.Background(), RedisSettings{Addr: addr, Prefix: "agenda-test-" + uuid.NewString()})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = p.Close() })
	return p
}

func TestRedisRoundTrip(t *testing.T) {
	p := redisForTest(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := p.Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}

	r := reservation.New(day.MustParse("2024-07-01"), "standup")
	if err := p.Store(ctx, r); err != nil {
		t.Fatalf("store: %v", err)
	}
	if err := p.EnsureDay(ctx, day.MustParse("2024-07-02")); err != nil {
		t.Fatalf("ensure day: %v", err)
	}

	src, err := p.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if items, ok := src.Lookup("2024-07-01"); !ok || len(items) != 1 || items[0].ID != r.ID {
		t.Fatalf("unexpected 1st: %v %v", items, ok)
	}
	if items, ok := src.Lookup("2024-07-02"); !ok || len(items) != 0 {
		t.Fatalf("unexpected 2nd: %v %v", items, ok)
	}

	select {
	case ev := <-ch:
		if ev.Type != EventDayChanged || ev.Day.Key() != "2024-07-01" {
			t.Fatalf("unexpected event %+v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}

	if err := p.Delete(ctx, *r); err != nil {
		t.Fatalf("delete: %v", err)
	}
}
