// Package store persists reservations and the set of loaded days, and turns
// them into the agenda.Source the list is built from.
package store

import (
	"context"
	"errors"
	"fmt"

	"tableflip.dev/agenda/pkg/agenda"
	"tableflip.dev/agenda/pkg/day"
	"tableflip.dev/agenda/pkg/reservation"
)

var (
	// ErrUnknownBackend is returned by Open for an unsupported backend name.
	ErrUnknownBackend = errors.New("store: unknown backend")
	// ErrNoReservation is returned when deleting a reservation that does not
	// exist.
	ErrNoReservation = errors.New("store: no such reservation")
)

// Persistence defines the persistence contract for reservations.
type Persistence interface {
	// Snapshot returns every loaded day with its reservations, sorted.
	Snapshot(ctx context.Context) (agenda.MapSource, error)
	// List returns the reservations on d and whether d is loaded.
	List(ctx context.Context, d day.Day) ([]reservation.Reservation, bool, error)
	// Days returns the loaded days in ascending order.
	Days(ctx context.Context) ([]day.Day, error)
	// Store writes r, assigning an ID when it has none, and marks its day
	// loaded.
	Store(ctx context.Context, r *reservation.Reservation) error
	Delete(ctx context.Context, r reservation.Reservation) error
	// EnsureDay marks d as loaded even when it has no reservations.
	EnsureDay(ctx context.Context, d day.Day) error
	// Watch streams change events until ctx is cancelled.
	Watch(ctx context.Context) (<-chan Event, error)
	Close() error
}

// Open returns the backend named by s.Backend. An empty name means diskv.
func Open(ctx context.Context, s *Settings) (Persistence, error) {
	if s == nil {
		var err error
		if s, err = LoadSettings(); err != nil {
			return nil, err
		}
	}
	switch s.Backend {
	case "", BackendDiskv:
		return Load(s)
	case BackendRedis:
		return NewRedis(ctx, s.Redis)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, s.Backend)
	}
}

// EventType describes the nature of a persistence change notification.
type EventType int

const (
	// EventDayChanged indicates the reservations of Day changed.
	EventDayChanged EventType = iota
	// EventInvalidated signals that callers should reload everything.
	EventInvalidated
)

// Event is emitted by Persistence.Watch when underlying storage changes.
type Event struct {
	Type EventType
	Day  day.Day
}

func (t EventType) String() string {
	switch t {
	case EventDayChanged:
		return "day-changed"
	case EventInvalidated:
		return "invalidated"
	default:
		return fmt.Sprintf("EventType(%d)", int(t))
	}
}

func sortSource(src agenda.MapSource) {
	for key := range src {
		reservation.Sort(src[key])
	}
}
