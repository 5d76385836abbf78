package booking

import (
	"context"
	"path/filepath"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/striver-24/medical-appointment-agent/internal/lock"
	"github.com/striver-24/medical-appointment-agent/internal/schedule"
)

func newTestService(t *testing.T) (*Service, *schedule.FileStore) {
	t.Helper()
	dir := t.TempDir()
	store := schedule.NewFileStore(filepath.Join(dir, "schedules.json"), time.UTC)
	locker := lock.NewFileLocker(dir, 5*time.Second, nil)
	return NewService(store, locker, "schedules", time.UTC, nil, nil), store
}

// seedDoctor writes 16 consecutive slots starting tomorrow 10:00 UTC, index 4
// pre-booked.
func seedDoctor(t *testing.T, store *schedule.FileStore, doctor string) time.Time {
	t.Helper()
	start := time.Now().UTC().Truncate(time.Hour).Add(24 * time.Hour)
	sched := make(schedule.Schedule, 0, 16)
	for i := 0; i < 16; i++ {
		sched = append(sched, schedule.Slot{
			StartTime: start.Add(time.Duration(i) * schedule.Granularity),
			Status:    schedule.StatusAvailable,
		})
	}
	sched[4].Status = schedule.StatusBooked
	sched[4].Occupant = "Jane Smith (ID: 102)"
	require.NoError(t, store.WriteAll(context.Background(), doctor, sched))
	return start
}

func TestBookThenConflict(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)
	start := seedDoctor(t, store, "Dr. Test")

	windows, err := svc.FindAvailableSlots(ctx, "Dr. Test", nil, 30)
	require.NoError(t, err)
	require.NotEmpty(t, windows)
	require.True(t, windows[0].StartTime.Equal(start))

	appt, err := svc.Book(ctx, "Dr. Test", windows[0].StartTime, "101", "John Doe")
	require.NoError(t, err)
	assert.Equal(t, "Dr. Test", appt.Doctor)
	assert.Equal(t, "101", appt.PatientID)

	_, err = svc.Book(ctx, "Dr. Test", windows[0].StartTime, "102", "Jane Smith")
	assert.ErrorIs(t, err, ErrSlotTaken)

	// The loser's attempt must not have altered the winner's booking.
	sched, err := store.ReadAll(ctx, "Dr. Test")
	require.NoError(t, err)
	assert.Equal(t, "John Doe (ID: 101)", sched[0].Occupant)
}

func TestConcurrentBookExactlyOneWins(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)
	start := seedDoctor(t, store, "Dr. Test")

	const callers = 6
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Book(ctx, "Dr. Test", start, "P", "Patient")
		}(i)
	}
	wg.Wait()

	wins, conflicts := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case assert.ErrorIs(t, err, ErrSlotTaken):
			conflicts++
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, callers-1, conflicts)
}

func TestBookMutatesExactlyOneSlot(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)
	start := seedDoctor(t, store, "Dr. A")
	seedDoctor(t, store, "Dr. B")

	beforeA, err := store.ReadAll(ctx, "Dr. A")
	require.NoError(t, err)
	beforeB, err := store.ReadAll(ctx, "Dr. B")
	require.NoError(t, err)

	target := start.Add(2 * schedule.Granularity)
	_, err = svc.Book(ctx, "Dr. A", target, "101", "John Doe")
	require.NoError(t, err)

	afterA, err := store.ReadAll(ctx, "Dr. A")
	require.NoError(t, err)
	afterB, err := store.ReadAll(ctx, "Dr. B")
	require.NoError(t, err)

	assert.Equal(t, beforeB, afterB, "other doctors must be untouched")
	for i := range afterA {
		if afterA[i].StartTime.Equal(target) {
			assert.Equal(t, schedule.StatusBooked, afterA[i].Status)
			assert.Equal(t, "John Doe (ID: 101)", afterA[i].Occupant)
			continue
		}
		assert.Equal(t, beforeA[i], afterA[i], "slot %d must be untouched", i)
	}
}

func TestBookMissingSlotAndDoctor(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)
	start := seedDoctor(t, store, "Dr. Test")

	_, err := svc.Book(ctx, "Dr. Test", start.Add(7*time.Minute), "101", "John Doe")
	assert.ErrorIs(t, err, ErrSlotNotFound)

	_, err = svc.Book(ctx, "Dr. Nobody", start, "101", "John Doe")
	assert.ErrorIs(t, err, schedule.ErrDoctorNotFound)

	_, err = svc.FindAvailableSlots(ctx, "Dr. Nobody", nil, 30)
	assert.ErrorIs(t, err, schedule.ErrDoctorNotFound)
}

func TestBookLockTimeoutLeavesStoreUntouched(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store := schedule.NewFileStore(filepath.Join(dir, "schedules.json"), time.UTC)
	holder := lock.NewFileLocker(dir, time.Second, nil)
	svc := NewService(store, lock.NewFileLocker(dir, 100*time.Millisecond, nil), "schedules", time.UTC, nil, nil)
	start := seedDoctor(t, store, "Dr. Test")

	before, err := store.ReadAll(ctx, "Dr. Test")
	require.NoError(t, err)

	held := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = holder.WithLock(ctx, "schedules", func(ctx context.Context) error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held
	defer close(release)

	_, err = svc.Book(ctx, "Dr. Test", start, "101", "John Doe")
	require.ErrorIs(t, err, lock.ErrLockTimeout)

	after, err := store.ReadAll(ctx, "Dr. Test")
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestFindAvailableSlotsAfterBooking(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)
	start := seedDoctor(t, store, "Dr. Test")

	_, err := svc.Book(ctx, "Dr. Test", start, "101", "John Doe")
	require.NoError(t, err)

	windows, err := svc.FindAvailableSlots(ctx, "Dr. Test", nil, 30)
	require.NoError(t, err)
	require.NotEmpty(t, windows)
	assert.True(t, windows[0].StartTime.Equal(start.Add(schedule.Granularity)),
		"first window must move past the slot just booked")
}

func TestFindAvailableSlotsDayBoundaryUsesServiceZone(t *testing.T) {
	ctx := context.Background()
	loc := time.FixedZone("UTC-5", -5*3600)
	dir := t.TempDir()
	store := schedule.NewFileStore(filepath.Join(dir, "schedules.json"), loc)
	svc := NewService(store, lock.NewFileLocker(dir, 5*time.Second, nil), "schedules", loc, nil, nil)

	// 03:00 UTC is 22:00 the previous day in UTC-5.
	base := time.Now().UTC().AddDate(0, 0, 3)
	start := time.Date(base.Year(), base.Month(), base.Day(), 3, 0, 0, 0, time.UTC)
	sched := make(schedule.Schedule, 0, 4)
	for i := 0; i < 4; i++ {
		sched = append(sched, schedule.Slot{
			StartTime: start.Add(time.Duration(i) * schedule.Granularity),
			Status:    schedule.StatusAvailable,
		})
	}
	require.NoError(t, store.WriteAll(ctx, "Dr. Test", sched))

	zoneDay := start.In(loc)
	windows, err := svc.FindAvailableSlots(ctx, "Dr. Test", &zoneDay, 30)
	require.NoError(t, err)
	require.NotEmpty(t, windows, "slots fall on the previous calendar day in the service zone")
	assert.True(t, windows[0].StartTime.Equal(start))

	utcDay := time.Date(base.Year(), base.Month(), base.Day(), 12, 0, 0, 0, loc)
	windows, err = svc.FindAvailableSlots(ctx, "Dr. Test", &utcDay, 30)
	require.NoError(t, err)
	assert.Empty(t, windows, "the UTC calendar day must not match in the service zone")
}

func TestNewAppointmentIDFormat(t *testing.T) {
	now := time.Date(2026, 9, 1, 14, 30, 0, 0, time.UTC)
	id := newAppointmentID(now)
	assert.Regexp(t, regexp.MustCompile(`^APT-20260901-143000-[0-9a-f]{8}$`), id)
	assert.NotEqual(t, id, newAppointmentID(now), "suffix must differ between mints")
}
