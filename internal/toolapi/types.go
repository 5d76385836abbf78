// Package toolapi is the typed boundary the orchestrator calls. Each
// operation has an explicit request struct validated before it reaches the
// core, and every outcome comes back as a structured status plus message
// rather than a bare error.
package toolapi

import (
	"errors"
	"time"
)

// Outcome statuses. NotFound is a valid empty business result, not a failure.
const (
	StatusSuccess  = "success"
	StatusNotFound = "not_found"
	StatusConflict = "conflict"
	StatusError    = "error"
)

// Result is the common envelope of every response.
type Result struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type FindSlotsRequest struct {
	Doctor          string `json:"doctor"`
	Date            string `json:"date,omitempty"` // YYYY-MM-DD, optional
	DurationMinutes int    `json:"duration_minutes"`
}

func (r FindSlotsRequest) Validate() error {
	if r.Doctor == "" {
		return errors.New("doctor is required")
	}
	if r.DurationMinutes <= 0 {
		return errors.New("duration_minutes must be positive")
	}
	if r.Date != "" {
		if _, err := time.Parse(time.DateOnly, r.Date); err != nil {
			return errors.New("date must be YYYY-MM-DD")
		}
	}
	return nil
}

type FindSlotsResponse struct {
	Result
	Slots []string `json:"slots,omitempty"` // ISO-8601 window start times
}

type BookRequest struct {
	Doctor      string `json:"doctor"`
	SlotISO     string `json:"slot_iso"`
	PatientID   string `json:"patient_id"`
	PatientName string `json:"patient_name"`
}

func (r BookRequest) Validate() error {
	if r.Doctor == "" {
		return errors.New("doctor is required")
	}
	if _, err := time.Parse(time.RFC3339, r.SlotISO); err != nil {
		return errors.New("slot_iso must be an RFC 3339 timestamp")
	}
	if r.PatientID == "" {
		return errors.New("patient_id is required")
	}
	if r.PatientName == "" {
		return errors.New("patient_name is required")
	}
	return nil
}

type BookResponse struct {
	Result
	AppointmentID string `json:"appointment_id,omitempty"`
}

type ScheduleRemindersRequest struct {
	AppointmentID  string `json:"appointment_id"`
	AppointmentISO string `json:"appointment_iso"`
	PatientPhone   string `json:"patient_phone"`
	PatientEmail   string `json:"patient_email"`
}

func (r ScheduleRemindersRequest) Validate() error {
	if r.AppointmentID == "" {
		return errors.New("appointment_id is required")
	}
	if _, err := time.Parse(time.RFC3339, r.AppointmentISO); err != nil {
		return errors.New("appointment_iso must be an RFC 3339 timestamp")
	}
	if r.PatientPhone == "" && r.PatientEmail == "" {
		return errors.New("at least one of patient_phone or patient_email is required")
	}
	return nil
}

type ScheduleRemindersResponse struct {
	Result
	Scheduled int `json:"scheduled"`
}

type LookupPatientRequest struct {
	Name string `json:"name"`
	DOB  string `json:"dob"` // YYYY-MM-DD
}

func (r LookupPatientRequest) Validate() error {
	if r.Name == "" {
		return errors.New("name is required")
	}
	if _, err := time.Parse(time.DateOnly, r.DOB); err != nil {
		return errors.New("dob must be YYYY-MM-DD")
	}
	return nil
}

type PatientResponse struct {
	Result
	PatientID int    `json:"patient_id,omitempty"`
	Name      string `json:"name,omitempty"`
	DOB       string `json:"dob,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`
}

type RegisterPatientRequest struct {
	Name  string `json:"name"`
	DOB   string `json:"dob"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func (r RegisterPatientRequest) Validate() error {
	if r.Name == "" {
		return errors.New("name is required")
	}
	if _, err := time.Parse(time.DateOnly, r.DOB); err != nil {
		return errors.New("dob must be YYYY-MM-DD")
	}
	if r.Email == "" && r.Phone == "" {
		return errors.New("at least one of email or phone is required")
	}
	return nil
}
