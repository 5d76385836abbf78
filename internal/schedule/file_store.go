package schedule

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"
)

// FileStore persists the container as a single JSON document, one slot list
// per doctor. Mutations rewrite the whole document: the new container is
// marshaled in memory and renamed over the old file, so a crash mid-write
// never leaves other doctors' schedules partially written.
type FileStore struct {
	path string
	loc  *time.Location
}

// NewFileStore creates a store backed by the JSON container at path. The
// location fixes the day boundary used by ReadDay; nil means time.Local.
func NewFileStore(path string, loc *time.Location) *FileStore {
	if loc == nil {
		loc = time.Local
	}
	return &FileStore{path: path, loc: loc}
}

type container struct {
	Doctors map[string]Schedule `json:"doctors"`
}

func (s *FileStore) load() (container, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return container{Doctors: map[string]Schedule{}}, nil
		}
		return container{}, fmt.Errorf("schedule: read container %s: %w", s.path, err)
	}
	var c container
	if err := json.Unmarshal(data, &c); err != nil {
		return container{}, fmt.Errorf("schedule: parse container %s: %w", s.path, err)
	}
	if c.Doctors == nil {
		c.Doctors = map[string]Schedule{}
	}
	return c, nil
}

// ReadAll loads the full ordered slot sequence for a doctor.
func (s *FileStore) ReadAll(ctx context.Context, doctor string) (Schedule, error) {
	c, err := s.load()
	if err != nil {
		return nil, err
	}
	sched, ok := c.Doctors[doctor]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrDoctorNotFound, doctor)
	}
	out := sched.Clone()
	out.Sort()
	return out, nil
}

// ReadDay loads the doctor's slots falling on the given calendar day.
func (s *FileStore) ReadDay(ctx context.Context, doctor string, date time.Time) (Schedule, error) {
	sched, err := s.ReadAll(ctx, doctor)
	if err != nil {
		return nil, err
	}
	return filterDay(sched, date, s.loc), nil
}

// WriteAll replaces the doctor's slot sequence, carrying every other doctor's
// schedule through unchanged.
func (s *FileStore) WriteAll(ctx context.Context, doctor string, sched Schedule) error {
	c, err := s.load()
	if err != nil {
		return err
	}
	next := sched.Clone()
	next.Sort()
	c.Doctors[doctor] = next

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("schedule: marshal container: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".schedules-*.json")
	if err != nil {
		return fmt.Errorf("schedule: create temp container: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("schedule: write temp container: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("schedule: close temp container: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("schedule: chmod temp container: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("schedule: replace container: %w", err)
	}
	return nil
}

// Doctors lists the doctors present in the container, sorted by name.
func (s *FileStore) Doctors(ctx context.Context) ([]string, error) {
	c, err := s.load()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(c.Doctors))
	for name := range c.Doctors {
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

var _ Store = (*FileStore)(nil)
