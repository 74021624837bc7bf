package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"tableflip.dev/agenda/pkg/agenda"
	"tableflip.dev/agenda/pkg/day"
	"tableflip.dev/agenda/pkg/logging"
	"tableflip.dev/agenda/pkg/reservation"
)

// invalidateAll is published when a change is not tied to one day.
const invalidateAll = "*"

// redisStore keeps one hash per day, field ID to reservation JSON, plus a set
// of loaded day keys. Writers publish the changed day key on the events
// channel.
type redisStore struct {
	client *redis.Client
	prefix string
	log    *zap.Logger
}

// NewRedis connects to redis and checks the connection.
func NewRedis(ctx context.Context, s RedisSettings) (Persistence, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     s.Addr,
		Password: s.Password,
		DB:       s.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if _, err := client.Ping(pingCtx).Result(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("store: connect to redis at %s: %w", s.Addr, err)
	}
	prefix := s.Prefix
	if prefix == "" {
		prefix = "agenda"
	}
	return &redisStore{client: client, prefix: prefix, log: logging.New("store.redis")}, nil
}

func (r *redisStore) daysKey() string         { return r.prefix + ":days" }
func (r *redisStore) eventsKey() string       { return r.prefix + ":events" }
func (r *redisStore) dayKey(d day.Day) string { return r.prefix + ":day:" + d.Key() }

func (r *redisStore) Snapshot(ctx context.Context) (agenda.MapSource, error) {
	keys, err := r.client.SMembers(ctx, r.daysKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("store: list days: %w", err)
	}
	days := make([]day.Day, 0, len(keys))
	for _, k := range keys {
		d, err := day.Parse(k)
		if err != nil {
			r.log.Warn("skipping malformed day", zap.String("key", k), zap.Error(err))
			continue
		}
		days = append(days, d)
	}

	pipe := r.client.Pipeline()
	cmds := make([]*redis.StringStringMapCmd, len(days))
	for i, d := range days {
		cmds[i] = pipe.HGetAll(ctx, r.dayKey(d))
	}
	if len(days) > 0 {
		if _, err := pipe.Exec(ctx); err != nil {
			return nil, fmt.Errorf("store: read days: %w", err)
		}
	}

	src := agenda.MapSource{}
	for i, d := range days {
		src.MarkKnown(d)
		for id, raw := range cmds[i].Val() {
			res, err := decodeReservation(raw, id, d)
			if err != nil {
				r.log.Warn("skipping unreadable reservation", zap.String("id", id), zap.Error(err))
				continue
			}
			src.Add(res)
		}
	}
	sortSource(src)
	return src, nil
}

func (r *redisStore) List(ctx context.Context, d day.Day) ([]reservation.Reservation, bool, error) {
	known, err := r.client.SIsMember(ctx, r.daysKey(), d.Key()).Result()
	if err != nil {
		return nil, false, fmt.Errorf("store: check day %s: %w", d.Key(), err)
	}
	fields, err := r.client.HGetAll(ctx, r.dayKey(d)).Result()
	if err != nil {
		return nil, false, fmt.Errorf("store: read day %s: %w", d.Key(), err)
	}
	all := make([]reservation.Reservation, 0, len(fields))
	for id, raw := range fields {
		res, err := decodeReservation(raw, id, d)
		if err != nil {
			r.log.Warn("skipping unreadable reservation", zap.String("id", id), zap.Error(err))
			continue
		}
		all = append(all, res)
	}
	reservation.Sort(all)
	return all, known || len(all) > 0, nil
}

func (r *redisStore) Days(ctx context.Context) ([]day.Day, error) {
	src, err := r.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return daysOf(src), nil
}

func (r *redisStore) Store(ctx context.Context, res *reservation.Reservation) error {
	if res.Day.IsZero() {
		return errors.New("store: reservation day required")
	}
	if res.Schema == "" {
		res.Schema = reservation.CurrentSchema
	}
	res.EnsureID()
	data, err := json.Marshal(res)
	if err != nil {
		return err
	}
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, r.dayKey(res.Day), res.ID, data)
		pipe.SAdd(ctx, r.daysKey(), res.Day.Key())
		pipe.Publish(ctx, r.eventsKey(), res.Day.Key())
		return nil
	})
	if err != nil {
		return fmt.Errorf("store: write %s: %w", res.ID, err)
	}
	return nil
}

func (r *redisStore) Delete(ctx context.Context, res reservation.Reservation) error {
	n, err := r.client.HDel(ctx, r.dayKey(res.Day), res.ID).Result()
	if err != nil {
		return fmt.Errorf("store: delete %s: %w", res.ID, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s %s", ErrNoReservation, res.Day.Key(), res.ID)
	}
	return r.client.Publish(ctx, r.eventsKey(), res.Day.Key()).Err()
}

func (r *redisStore) EnsureDay(ctx context.Context, d day.Day) error {
	if d.IsZero() {
		return errors.New("store: day required")
	}
	added, err := r.client.SAdd(ctx, r.daysKey(), d.Key()).Result()
	if err != nil {
		return fmt.Errorf("store: mark day %s: %w", d.Key(), err)
	}
	if added == 0 {
		return nil
	}
	return r.client.Publish(ctx, r.eventsKey(), d.Key()).Err()
}

// Watch subscribes to the events channel.
func (r *redisStore) Watch(ctx context.Context) (<-chan Event, error) {
	sub := r.client.Subscribe(ctx, r.eventsKey())
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("store: subscribe %s: %w", r.eventsKey(), err)
	}

	events := make(chan Event, 64)
	go func() {
		defer close(events)
		defer sub.Close()

		messages := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				ev := eventForPayload(msg.Payload)
				select {
				case events <- ev:
				default:
				}
			}
		}
	}()
	return events, nil
}

func (r *redisStore) Close() error { return r.client.Close() }

func eventForPayload(payload string) Event {
	if payload == invalidateAll {
		return Event{Type: EventInvalidated}
	}
	d, err := day.Parse(payload)
	if err != nil {
		return Event{Type: EventInvalidated}
	}
	return Event{Type: EventDayChanged, Day: d}
}

func decodeReservation(raw, id string, d day.Day) (reservation.Reservation, error) {
	res := reservation.Reservation{}
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		return res, err
	}
	res.ID = id
	if res.Day.IsZero() {
		res.Day = d
	}
	if res.Schema == "" {
		res.Schema = reservation.CurrentSchema
	}
	return res, nil
}
