package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/peterbourgon/diskv/v3"
	"go.uber.org/zap"

	"tableflip.dev/agenda/pkg/agenda"
	"tableflip.dev/agenda/pkg/day"
	"tableflip.dev/agenda/pkg/logging"
	"tableflip.dev/agenda/pkg/reservation"
)

const (
	daysIndexFile = ".days.json"
	// keySep joins the day key and the reservation ID in a diskv key. Both
	// halves may contain dashes.
	keySep = "_"
)

// Load creates a Persistence backed by diskv using the provided config.
func Load(cfg Config) (Persistence, error) {
	if cfg == nil {
		s, err := LoadSettings()
		if err != nil {
			return nil, err
		}
		cfg = s
	}

	basePath := cfg.BasePath()
	if basePath == "" {
		return nil, errors.New("store: base path unknown")
	}
	return &persistence{
		d: diskv.New(diskv.Options{
			BasePath:          basePath,
			AdvancedTransform: keyToPathTransform,
			InverseTransform:  pathToKeyTransform,
			// No read cache: other processes write the same tree.
			CacheSizeMax: 0,
		}),
		basePath: basePath,
		log:      logging.New("store"),
	}, nil
}

type persistence struct {
	d        *diskv.Diskv
	basePath string
	log      *zap.Logger

	// mu serializes read-modify-write of the days index.
	mu sync.Mutex
}

func (p *persistence) read(key string) (reservation.Reservation, error) {
	r := reservation.Reservation{}
	val, err := p.d.Read(key)
	if err != nil {
		return r, err
	}
	if err := json.Unmarshal(val, &r); err != nil {
		return r, err
	}
	if r.Schema == "" {
		r.Schema = reservation.CurrentSchema
	}
	dayKey, id, _ := splitKey(key)
	r.ID = id
	if r.Day.IsZero() {
		if d, err := day.Parse(dayKey); err == nil {
			r.Day = d
		}
	}
	return r, nil
}

func (p *persistence) Snapshot(ctx context.Context) (agenda.MapSource, error) {
	days, err := p.loadDaysIndex()
	if err != nil {
		return nil, fmt.Errorf("store: load days index: %w", err)
	}
	src := agenda.MapSource{}
	for _, d := range days {
		src.MarkKnown(d)
	}
	for key := range p.d.Keys(ctx.Done()) {
		if _, _, ok := splitKey(key); !ok {
			continue
		}
		r, err := p.read(key)
		if err != nil {
			p.log.Warn("skipping unreadable reservation", zap.String("key", key), zap.Error(err))
			continue
		}
		src.Add(r)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sortSource(src)
	return src, nil
}

func (p *persistence) List(ctx context.Context, d day.Day) ([]reservation.Reservation, bool, error) {
	days, err := p.loadDaysIndex()
	if err != nil {
		return nil, false, fmt.Errorf("store: load days index: %w", err)
	}
	known := false
	for _, k := range days {
		if k.Equal(d) {
			known = true
			break
		}
	}
	all := make([]reservation.Reservation, 0)
	for key := range p.d.KeysPrefix(d.Key()+keySep, ctx.Done()) {
		r, err := p.read(key)
		if err != nil {
			p.log.Warn("skipping unreadable reservation", zap.String("key", key), zap.Error(err))
			continue
		}
		all = append(all, r)
	}
	if len(all) > 0 {
		known = true
	}
	reservation.Sort(all)
	return all, known, nil
}

func (p *persistence) Days(ctx context.Context) ([]day.Day, error) {
	src, err := p.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return daysOf(src), nil
}

func (p *persistence) Store(ctx context.Context, r *reservation.Reservation) error {
	if r.Day.IsZero() {
		return errors.New("store: reservation day required")
	}
	if r.Schema == "" {
		r.Schema = reservation.CurrentSchema
	}
	r.EnsureID()
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	if err := p.d.Write(toKey(*r), data); err != nil {
		return fmt.Errorf("store: write %s: %w", r.ID, err)
	}
	return p.EnsureDay(ctx, r.Day)
}

func (p *persistence) Delete(_ context.Context, r reservation.Reservation) error {
	key := toKey(r)
	if r.ID == "" || !p.d.Has(key) {
		return fmt.Errorf("%w: %s %s", ErrNoReservation, r.Day.Key(), r.ID)
	}
	return p.d.Erase(key)
}

func (p *persistence) EnsureDay(_ context.Context, d day.Day) error {
	if d.IsZero() {
		return errors.New("store: day required")
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	days, err := p.loadDaysIndex()
	if err != nil {
		return fmt.Errorf("store: load days index: %w", err)
	}
	for _, k := range days {
		if k.Equal(d) {
			return nil
		}
	}
	days = append(days, d)
	if err := p.saveDaysIndex(days); err != nil {
		return fmt.Errorf("store: save days index: %w", err)
	}
	return nil
}

func (p *persistence) Close() error { return nil }

func (p *persistence) daysIndexPath() string {
	return filepath.Join(p.basePath, daysIndexFile)
}

func (p *persistence) loadDaysIndex() ([]day.Day, error) {
	if err := os.MkdirAll(p.basePath, 0o755); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p.daysIndexPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	var days []day.Day
	if err := json.Unmarshal(data, &days); err != nil {
		return nil, err
	}
	return days, nil
}

func (p *persistence) saveDaysIndex(days []day.Day) error {
	if err := os.MkdirAll(p.basePath, 0o755); err != nil {
		return err
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	data, err := json.MarshalIndent(days, "", "  ")
	if err != nil {
		return err
	}
	path := p.daysIndexPath()
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func daysOf(src agenda.MapSource) []day.Day {
	days := make([]day.Day, 0, len(src))
	for key := range src {
		if d, err := day.Parse(key); err == nil {
			days = append(days, d)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

// keyToPathTransform stores `2024-07-01_<id>` as 2024-07-01/<id>.
func keyToPathTransform(s string) *diskv.PathKey {
	dayKey, id, ok := splitKey(s)
	if !ok {
		return &diskv.PathKey{FileName: s}
	}
	return &diskv.PathKey{
		Path:     []string{dayKey},
		FileName: id,
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	if len(pathKey.Path) == 0 {
		return pathKey.FileName
	}
	return strings.Join(pathKey.Path, "/") + keySep + pathKey.FileName
}

// toKey makes `date_id`.
func toKey(r reservation.Reservation) string {
	return r.Day.Key() + keySep + r.ID
}

func splitKey(key string) (dayKey, id string, ok bool) {
	dayKey, id, ok = strings.Cut(key, keySep)
	if !ok || id == "" {
		return "", "", false
	}
	if _, err := day.Parse(dayKey); err != nil {
		return "", "", false
	}
	return dayKey, id, true
}
