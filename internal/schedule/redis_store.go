package schedule

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the container in Redis: one JSON value per doctor plus a
// membership set. A doctor's WriteAll is a single SET, so readers observe
// either the old or the new sequence, matching the whole-replace contract.
type RedisStore struct {
	client *redis.Client
	prefix string
	loc    *time.Location
}

// NewRedisStore creates a Redis-backed store. The prefix namespaces keys so
// several containers can share one Redis; empty means "schedule".
func NewRedisStore(client *redis.Client, prefix string, loc *time.Location) *RedisStore {
	if prefix == "" {
		prefix = "schedule"
	}
	if loc == nil {
		loc = time.Local
	}
	return &RedisStore{client: client, prefix: prefix, loc: loc}
}

func (s *RedisStore) doctorKey(doctor string) string {
	return s.prefix + ":doctor:" + doctor
}

func (s *RedisStore) doctorsKey() string {
	return s.prefix + ":doctors"
}

// ReadAll loads the full ordered slot sequence for a doctor.
func (s *RedisStore) ReadAll(ctx context.Context, doctor string) (Schedule, error) {
	data, err := s.client.Get(ctx, s.doctorKey(doctor)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %q", ErrDoctorNotFound, doctor)
		}
		return nil, fmt.Errorf("schedule: read %q from redis: %w", doctor, err)
	}
	var sched Schedule
	if err := json.Unmarshal(data, &sched); err != nil {
		return nil, fmt.Errorf("schedule: parse %q from redis: %w", doctor, err)
	}
	sched.Sort()
	return sched, nil
}

// ReadDay loads the doctor's slots falling on the given calendar day.
func (s *RedisStore) ReadDay(ctx context.Context, doctor string, date time.Time) (Schedule, error) {
	sched, err := s.ReadAll(ctx, doctor)
	if err != nil {
		return nil, err
	}
	return filterDay(sched, date, s.loc), nil
}

// WriteAll replaces the doctor's slot sequence.
func (s *RedisStore) WriteAll(ctx context.Context, doctor string, sched Schedule) error {
	next := sched.Clone()
	next.Sort()
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("schedule: marshal %q: %w", doctor, err)
	}
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.doctorKey(doctor), data, 0)
	pipe.SAdd(ctx, s.doctorsKey(), doctor)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("schedule: write %q to redis: %w", doctor, err)
	}
	return nil
}

// Doctors lists the doctors present in the container, sorted by name.
func (s *RedisStore) Doctors(ctx context.Context) ([]string, error) {
	names, err := s.client.SMembers(ctx, s.doctorsKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("schedule: list doctors from redis: %w", err)
	}
	slices.Sort(names)
	return names, nil
}

var _ Store = (*RedisStore)(nil)
