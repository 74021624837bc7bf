// Package mcp provides the Model Context Protocol server integration for agenda.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tableflip.dev/agenda/pkg/agenda"
	"tableflip.dev/agenda/pkg/day"
	"tableflip.dev/agenda/pkg/reservation"
	"tableflip.dev/agenda/pkg/store"
)

// Service coordinates persistence-backed operations that are shared by the MCP server.
type Service struct {
	Persistence store.Persistence
	// Today defaults to day.Today; relative day arguments resolve against it.
	Today func() day.Day
}

// ErrReservationNotFound is returned when a reservation cannot be located in persistence.
var ErrReservationNotFound = errors.New("reservation not found")

var errNoPersistence = errors.New("persistence is not configured")

// AddReservationOptions captures the parameters used to create a new reservation.
type AddReservationOptions struct {
	Day   day.Day
	Title string
	Note  string
	Start string
	End   string
}

// ReservationDTO is a transport-friendly projection of a reservation.
type ReservationDTO struct {
	ID          string `json:"id"`
	Day         string `json:"day"`
	Title       string `json:"title"`
	Note        string `json:"note,omitempty"`
	Start       string `json:"start,omitempty"`
	End         string `json:"end,omitempty"`
	TimeRange   string `json:"timeRange,omitempty"`
	CreatedISO  string `json:"created,omitempty"`
	CreatedUnix int64  `json:"createdUnix,omitempty"`
}

// DayDTO describes one calendar day. Loaded is false for days the store
// knows nothing about, which the agenda renders as a loading state.
type DayDTO struct {
	Day          string           `json:"day"`
	Label        string           `json:"label"`
	Loaded       bool             `json:"loaded"`
	Selected     bool             `json:"selected,omitempty"`
	Count        int              `json:"count"`
	Reservations []ReservationDTO `json:"reservations"`
}

// WindowDTO is the agenda window around a selected day.
type WindowDTO struct {
	Selected    string   `json:"selected"`
	Loaded      bool     `json:"loaded"`
	CountBefore int      `json:"countBefore"`
	Days        []DayDTO `json:"days"`
}

// NewService builds a service wrapper using the provided persistence layer.
func NewService(p store.Persistence) *Service {
	return &Service{Persistence: p, Today: day.Today}
}

// ParseDay resolves a day argument. Empty means today.
func (s *Service) ParseDay(value string) (day.Day, error) {
	today := day.Today()
	if s.Today != nil {
		today = s.Today()
	}
	if strings.TrimSpace(value) == "" {
		return today, nil
	}
	return day.ParseLoose(value, today)
}

// ListDays returns every loaded day.
func (s *Service) ListDays(ctx context.Context) ([]DayDTO, error) {
	if s.Persistence == nil {
		return nil, errNoPersistence
	}
	src, err := s.Persistence.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	days, err := s.Persistence.Days(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]DayDTO, 0, len(days))
	for _, d := range days {
		items, _ := src.Lookup(d.Key())
		out = append(out, toDayDTO(d, true, items))
	}
	return out, nil
}

// ListDay gathers the reservations of d.
func (s *Service) ListDay(ctx context.Context, d day.Day) (*DayDTO, error) {
	if s.Persistence == nil {
		return nil, errNoPersistence
	}
	if d.IsZero() {
		return nil, errors.New("day is required")
	}
	items, known, err := s.Persistence.List(ctx, d)
	if err != nil {
		return nil, err
	}
	dto := toDayDTO(d, known, items)
	return &dto, nil
}

// ListWindow builds the agenda window for selected the same way the list
// view does.
func (s *Service) ListWindow(ctx context.Context, selected day.Day, opts agenda.BuildOptions) (*WindowDTO, error) {
	if s.Persistence == nil {
		return nil, errNoPersistence
	}
	if selected.IsZero() {
		return nil, errors.New("day is required")
	}
	src, err := s.Persistence.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	res := agenda.BuildWith(nil, selected, selected.MonthStart(), src, opts)
	dto := &WindowDTO{
		Selected:    selected.Key(),
		Loaded:      agenda.Known(src, selected),
		CountBefore: res.CountBefore,
		Days:        make([]DayDTO, 0, len(res.Window)),
	}
	for _, g := range res.Window {
		d := toDayDTO(g.Day, true, g.Items)
		d.Selected = g.Day.Equal(selected)
		dto.Days = append(dto.Days, d)
	}
	return dto, nil
}

// AddReservation persists a new reservation using the supplied options.
func (s *Service) AddReservation(ctx context.Context, opts AddReservationOptions) (*ReservationDTO, error) {
	if s.Persistence == nil {
		return nil, errNoPersistence
	}
	if opts.Day.IsZero() {
		return nil, errors.New("day is required")
	}
	if strings.TrimSpace(opts.Title) == "" {
		return nil, errors.New("title is required")
	}
	if !reservation.ValidClock(opts.Start) || !reservation.ValidClock(opts.End) {
		return nil, fmt.Errorf("start and end must be HH:MM, got %q and %q", opts.Start, opts.End)
	}

	r := reservation.New(opts.Day, opts.Title)
	r.Note = strings.TrimSpace(opts.Note)
	r.Start = opts.Start
	r.End = opts.End

	if err := s.Persistence.Store(ctx, r); err != nil {
		return nil, err
	}

	dto := toDTO(*r)
	return &dto, nil
}

// MarkDayLoaded records d as loaded so it renders as an empty day rather
// than a loading one.
func (s *Service) MarkDayLoaded(ctx context.Context, d day.Day) (*DayDTO, error) {
	if s.Persistence == nil {
		return nil, errNoPersistence
	}
	if err := s.Persistence.EnsureDay(ctx, d); err != nil {
		return nil, err
	}
	return s.ListDay(ctx, d)
}

// DeleteReservation removes a reservation by id.
func (s *Service) DeleteReservation(ctx context.Context, id string) (*ReservationDTO, error) {
	r, err := s.findReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.Persistence.Delete(ctx, r); err != nil {
		return nil, err
	}
	dto := toDTO(r)
	return &dto, nil
}

// ReservationByID locates a reservation by id and returns the DTO representation.
func (s *Service) ReservationByID(ctx context.Context, id string) (*ReservationDTO, error) {
	r, err := s.findReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toDTO(r)
	return &dto, nil
}

func (s *Service) findReservation(ctx context.Context, id string) (reservation.Reservation, error) {
	if s.Persistence == nil {
		return reservation.Reservation{}, errNoPersistence
	}
	if id == "" {
		return reservation.Reservation{}, errors.New("id is required")
	}

	src, err := s.Persistence.Snapshot(ctx)
	if err != nil {
		return reservation.Reservation{}, err
	}
	for _, items := range src {
		for _, r := range items {
			if r.ID == id {
				return r, nil
			}
		}
	}
	return reservation.Reservation{}, fmt.Errorf("%w: %s", ErrReservationNotFound, id)
}

func toDayDTO(d day.Day, known bool, items []reservation.Reservation) DayDTO {
	dto := DayDTO{
		Day:          d.Key(),
		Label:        d.String(),
		Loaded:       known,
		Count:        len(items),
		Reservations: make([]ReservationDTO, 0, len(items)),
	}
	for _, r := range items {
		dto.Reservations = append(dto.Reservations, toDTO(r))
	}
	return dto
}

func toDTO(r reservation.Reservation) ReservationDTO {
	dto := ReservationDTO{
		ID:        r.ID,
		Day:       r.Day.Key(),
		Title:     r.Title,
		Note:      r.Note,
		Start:     r.Start,
		End:       r.End,
		TimeRange: r.TimeRange(),
	}
	if !r.Created.IsZero() {
		dto.CreatedISO = r.Created.UTC().Format(time.RFC3339)
		dto.CreatedUnix = r.Created.Unix()
	}
	return dto
}
