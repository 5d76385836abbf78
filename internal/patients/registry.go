// Package patients is the registry collaborator the orchestrator consults
// before booking. The booking core itself only ever sees an id and a name.
package patients

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"
)

// ErrNotFound means no patient matched the lookup; the caller should offer
// registration.
var ErrNotFound = errors.New("patients: not found")

// firstPatientID seeds the monotonic id sequence for an empty registry.
const firstPatientID = 1000

// Patient is one registry record.
type Patient struct {
	ID    int
	Name  string
	DOB   string // YYYY-MM-DD
	Phone string
	Email string
}

// NewPatient carries registration input.
type NewPatient struct {
	Name  string
	DOB   string
	Email string
	Phone string
}

// Registry looks up and registers patients.
type Registry interface {
	Lookup(ctx context.Context, name, dob string) (*Patient, error)
	Register(ctx context.Context, p NewPatient) (*Patient, error)
}

// normalizeDOB parses common date inputs down to YYYY-MM-DD.
func normalizeDOB(dob string) (string, error) {
	dob = strings.TrimSpace(dob)
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, dob); err == nil {
			return t.Format(time.DateOnly), nil
		}
	}
	return "", errors.New("patients: dob must be YYYY-MM-DD")
}

// nextPatientID returns one more than the highest id seen so far.
func nextPatientID(existing []Patient) int {
	next := firstPatientID
	for _, p := range existing {
		if p.ID >= next {
			next = p.ID + 1
		}
	}
	return next
}

func parsePatientID(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}
