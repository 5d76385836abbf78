// Command seed populates the schedule store and patient registry with demo
// data: a fortnight of 15-minute slots for a small roster of doctors, with a
// scattering of pre-booked slots so searches have gaps to work around.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/striver-24/medical-appointment-agent/internal/config"
	"github.com/striver-24/medical-appointment-agent/internal/lock"
	"github.com/striver-24/medical-appointment-agent/internal/patients"
	"github.com/striver-24/medical-appointment-agent/internal/schedule"
	"github.com/striver-24/medical-appointment-agent/pkg/logging"
)

var doctors = []string{
	"Dr. Emily Carter",
	"Dr. Ben Adams",
	"Dr. Olivia Chen",
	"Dr. Marcus Rodriguez",
}

const bookedRatio = 0.15

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)
	ctx := context.Background()

	store, err := newStore(cfg)
	if err != nil {
		logger.Error("seed: store init failed", "error", err)
		os.Exit(1)
	}

	loc := cfg.Location()
	start := time.Now().In(loc).AddDate(0, 0, 1)

	for _, doctor := range doctors {
		sched := buildSchedule(start, cfg.ScheduleDays, cfg.DayStartHour, cfg.DayEndHour, loc)
		if err := store.WriteAll(ctx, doctor, sched); err != nil {
			logger.Error("seed: write schedule failed", "doctor", doctor, "error", err)
			os.Exit(1)
		}
		logger.Info("seed: schedule written", "doctor", doctor, "slots", len(sched))
	}

	if cfg.StorageBackend == "file" {
		if err := seedPatients(ctx, cfg, logger); err != nil {
			logger.Error("seed: patient registry failed", "error", err)
			os.Exit(1)
		}
	}

	logger.Info("seed: done", "doctors", len(doctors), "days", cfg.ScheduleDays)
}

func newStore(cfg *config.Config) (schedule.Store, error) {
	switch cfg.StorageBackend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		return schedule.NewRedisStore(client, "", cfg.Location()), nil
	case "file":
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		return schedule.NewFileStore(cfg.SchedulesPath, cfg.Location()), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

// buildSchedule lays out weekday slots between the clinic's open and close
// hours, marking a random minority as already booked.
func buildSchedule(start time.Time, days, openHour, closeHour int, loc *time.Location) schedule.Schedule {
	var sched schedule.Schedule
	for d := 0; d < days; d++ {
		day := start.AddDate(0, 0, d)
		if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			continue
		}
		at := time.Date(day.Year(), day.Month(), day.Day(), openHour, 0, 0, 0, loc)
		end := time.Date(day.Year(), day.Month(), day.Day(), closeHour, 0, 0, 0, loc)
		for at.Before(end) {
			slot := schedule.Slot{StartTime: at, Status: schedule.StatusAvailable}
			if gofakeit.Float64Range(0, 1) < bookedRatio {
				slot.Status = schedule.StatusBooked
				slot.Occupant = fmt.Sprintf("%s (ID: %d)", gofakeit.Name(), gofakeit.IntRange(1000, 1099))
			}
			sched = append(sched, slot)
			at = at.Add(schedule.Granularity)
		}
	}
	return sched
}

func seedPatients(ctx context.Context, cfg *config.Config, logger *logging.Logger) error {
	locker := lock.NewFileLocker(cfg.LockDir, cfg.LockTimeout, logger)
	registry := patients.NewCSVRegistry(cfg.PatientsPath, locker, "patients", logger)

	for i := 0; i < 5; i++ {
		p, err := registry.Register(ctx, patients.NewPatient{
			Name:  gofakeit.Name(),
			DOB:   gofakeit.DateRange(time.Date(1950, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2005, 12, 31, 0, 0, 0, 0, time.UTC)).Format(time.DateOnly),
			Email: gofakeit.Email(),
			Phone: gofakeit.Phone(),
		})
		if err != nil {
			return err
		}
		logger.Info("seed: patient registered", "patient_id", p.ID, "name", p.Name)
	}
	return nil
}
