// Package importer loads reservations from a YAML file into the store.
//
// The file lists reservations and, optionally, days that are loaded but
// empty:
//
//	days: [2024-07-05]
//	reservations:
//	  - day: 2024-07-04
//	    title: Fireworks
//	    start: "21:00"
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"tableflip.dev/agenda/pkg/day"
	"tableflip.dev/agenda/pkg/logging"
	"tableflip.dev/agenda/pkg/reservation"
	"tableflip.dev/agenda/pkg/store"
)

// ErrDuplicateID is returned when a file uses the same reservation id twice.
var ErrDuplicateID = errors.New("import: duplicate reservation id")

// File is the import document.
type File struct {
	Days         []day.Day                 `yaml:"days"`
	Reservations []reservation.Reservation `yaml:"reservations"`
}

// Importer reads Path (or In when Path is "-") and stores its contents.
type Importer struct {
	Path string
	In   io.Reader

	Persistence store.Persistence
	Out         io.Writer
}

// Decode parses and validates an import document.
func Decode(r io.Reader) (*File, error) {
	f := &File{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("import: decode: %w", err)
	}
	seen := map[string]int{}
	for i := range f.Reservations {
		r := &f.Reservations[i]
		if r.Day.IsZero() {
			return nil, fmt.Errorf("import: reservation %d: day required", i+1)
		}
		if strings.TrimSpace(r.Title) == "" {
			return nil, fmt.Errorf("import: reservation %d: title required", i+1)
		}
		if !reservation.ValidClock(r.Start) || !reservation.ValidClock(r.End) {
			return nil, fmt.Errorf("import: reservation %d: start and end must be HH:MM", i+1)
		}
		if r.ID == "" {
			continue
		}
		if prev, ok := seen[r.ID]; ok {
			return nil, fmt.Errorf("%w: %q at %d and %d", ErrDuplicateID, r.ID, prev, i+1)
		}
		seen[r.ID] = i + 1
	}
	return f, nil
}

func (im *Importer) Do(ctx context.Context) error {
	if im.Persistence == nil {
		return errors.New("can not import, no persistence")
	}
	in := im.In
	if im.Path != "" && im.Path != "-" {
		fh, err := os.Open(im.Path)
		if err != nil {
			return fmt.Errorf("import: %w", err)
		}
		defer fh.Close()
		in = fh
	}
	if in == nil {
		return errors.New("import: no input")
	}

	f, err := Decode(in)
	if err != nil {
		return err
	}

	log := logging.New("import")
	for _, d := range f.Days {
		if err := im.Persistence.EnsureDay(ctx, d); err != nil {
			return err
		}
	}
	for i := range f.Reservations {
		r := f.Reservations[i]
		r.Schema = reservation.CurrentSchema
		if r.Created.IsZero() {
			r.Created = reservation.Timestamp{Time: time.Now()}
		}
		if err := im.Persistence.Store(ctx, &r); err != nil {
			return err
		}
		log.Debug("imported", zap.String("id", r.ID), zap.String("day", r.Day.Key()))
	}

	out := im.Out
	if out == nil {
		out = color.Output
	}
	_, _ = color.New(color.Faint).Fprintf(out, "imported %d reservations, %d empty days\n", len(f.Reservations), len(f.Days))
	return nil
}
