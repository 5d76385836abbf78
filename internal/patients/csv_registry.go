package patients

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/striver-24/medical-appointment-agent/internal/lock"
	"github.com/striver-24/medical-appointment-agent/pkg/logging"
)

var csvHeader = []string{"patient_id", "name", "dob", "phone", "email"}

// CSVRegistry stores patients in a single CSV file. Like the schedule
// container, mutations rewrite the whole file under the registry's lock and
// land via temp-file rename, so concurrent registrations cannot interleave
// and readers never see a half-written file.
type CSVRegistry struct {
	path     string
	locker   lock.Locker
	resource string
	logger   *logging.Logger
}

// NewCSVRegistry creates a registry over the CSV file at path, guarded by the
// given lock resource.
func NewCSVRegistry(path string, locker lock.Locker, resource string, logger *logging.Logger) *CSVRegistry {
	if logger == nil {
		logger = logging.Default()
	}
	return &CSVRegistry{path: path, locker: locker, resource: resource, logger: logger}
}

// Lookup finds a patient by name (case-insensitive) and date of birth.
func (r *CSVRegistry) Lookup(ctx context.Context, name, dob string) (*Patient, error) {
	normDOB, err := normalizeDOB(dob)
	if err != nil {
		return nil, err
	}

	var found *Patient
	err = r.locker.WithLock(ctx, r.resource, func(ctx context.Context) error {
		records, err := r.load()
		if err != nil {
			return err
		}
		for i := range records {
			if strings.EqualFold(records[i].Name, name) && records[i].DOB == normDOB {
				found = &records[i]
				return nil
			}
		}
		return ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// Register appends a new patient with a freshly assigned id.
func (r *CSVRegistry) Register(ctx context.Context, p NewPatient) (*Patient, error) {
	normDOB, err := normalizeDOB(p.DOB)
	if err != nil {
		return nil, err
	}

	var created *Patient
	err = r.locker.WithLock(ctx, r.resource, func(ctx context.Context) error {
		records, err := r.load()
		if err != nil {
			return err
		}
		patient := Patient{
			ID:    nextPatientID(records),
			Name:  strings.TrimSpace(p.Name),
			DOB:   normDOB,
			Phone: strings.TrimSpace(p.Phone),
			Email: strings.TrimSpace(p.Email),
		}
		records = append(records, patient)
		if err := r.save(records); err != nil {
			return err
		}
		created = &patient
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.Info("patient registered", "patient_id", created.ID, "name", created.Name)
	return created, nil
}

func (r *CSVRegistry) load() ([]Patient, error) {
	f, err := os.Open(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("patients: open registry %s: %w", r.path, err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("patients: parse registry %s: %w", r.path, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	patients := make([]Patient, 0, len(rows)-1)
	for _, row := range rows[1:] { // skip header
		if len(row) < len(csvHeader) {
			continue
		}
		id, err := parsePatientID(row[0])
		if err != nil {
			continue
		}
		patients = append(patients, Patient{
			ID:    id,
			Name:  row[1],
			DOB:   row[2],
			Phone: row[3],
			Email: row[4],
		})
	}
	return patients, nil
}

func (r *CSVRegistry) save(patients []Patient) error {
	dir := filepath.Dir(r.path)
	tmp, err := os.CreateTemp(dir, ".patients-*.csv")
	if err != nil {
		return fmt.Errorf("patients: create temp registry: %w", err)
	}
	tmpName := tmp.Name()

	w := csv.NewWriter(tmp)
	rows := [][]string{csvHeader}
	for _, p := range patients {
		rows = append(rows, []string{strconv.Itoa(p.ID), p.Name, p.DOB, p.Phone, p.Email})
	}
	if err := w.WriteAll(rows); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("patients: write temp registry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("patients: close temp registry: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("patients: chmod temp registry: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("patients: replace registry: %w", err)
	}
	return nil
}

var _ Registry = (*CSVRegistry)(nil)
