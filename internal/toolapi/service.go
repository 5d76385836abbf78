package toolapi

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/striver-24/medical-appointment-agent/internal/booking"
	"github.com/striver-24/medical-appointment-agent/internal/lock"
	"github.com/striver-24/medical-appointment-agent/internal/patients"
	"github.com/striver-24/medical-appointment-agent/internal/remind"
	"github.com/striver-24/medical-appointment-agent/internal/schedule"
	"github.com/striver-24/medical-appointment-agent/pkg/logging"
)

const (
	msgNoSlots       = "No available slots found for the required duration. Please try another doctor or check back later."
	msgSlotTaken     = "Slot is no longer available."
	msgDoctorUnknown = "Doctor not found."
	msgNoPatient     = "No patient found. Please register."
)

// Service is the operation facade. It validates requests, delegates to the
// core packages, and folds their sentinel errors into Result statuses.
type Service struct {
	booking  *booking.Service
	reminder *remind.Scheduler
	patients patients.Registry
	loc      *time.Location
	logger   *logging.Logger
}

// NewService creates the facade. The location interprets request dates and
// must match the booking service's day boundary; nil means time.Local.
func NewService(b *booking.Service, r *remind.Scheduler, p patients.Registry, loc *time.Location, logger *logging.Logger) *Service {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{booking: b, reminder: r, patients: p, loc: loc, logger: logger}
}

func (s *Service) FindAvailableSlots(ctx context.Context, req FindSlotsRequest) FindSlotsResponse {
	if err := req.Validate(); err != nil {
		return FindSlotsResponse{Result: invalid(err)}
	}

	var date *time.Time
	if req.Date != "" {
		d, _ := time.ParseInLocation(time.DateOnly, req.Date, s.loc)
		date = &d
	}

	windows, err := s.booking.FindAvailableSlots(ctx, req.Doctor, date, req.DurationMinutes)
	if err != nil {
		if errors.Is(err, schedule.ErrDoctorNotFound) {
			return FindSlotsResponse{Result: Result{Status: StatusNotFound, Message: s.doctorNotFound(ctx, req.Doctor)}}
		}
		return FindSlotsResponse{Result: s.internal("find slots", err)}
	}
	if len(windows) == 0 {
		return FindSlotsResponse{Result: Result{Status: StatusNotFound, Message: msgNoSlots}}
	}

	slots := make([]string, 0, len(windows))
	for _, w := range windows {
		slots = append(slots, w.StartTime.Format(time.RFC3339))
	}
	return FindSlotsResponse{Result: Result{Status: StatusSuccess}, Slots: slots}
}

func (s *Service) BookAppointment(ctx context.Context, req BookRequest) BookResponse {
	if err := req.Validate(); err != nil {
		return BookResponse{Result: invalid(err)}
	}

	slotStart, _ := time.Parse(time.RFC3339, req.SlotISO)
	appt, err := s.booking.Book(ctx, req.Doctor, slotStart, req.PatientID, req.PatientName)
	switch {
	case err == nil:
		return BookResponse{
			Result:        Result{Status: StatusSuccess, Message: fmt.Sprintf("Appointment confirmed for %s.", slotStart.Format("Monday, January 2 at 3:04 PM"))},
			AppointmentID: appt.ID,
		}
	case errors.Is(err, booking.ErrSlotTaken):
		return BookResponse{Result: Result{Status: StatusConflict, Message: msgSlotTaken}}
	case errors.Is(err, booking.ErrSlotNotFound):
		return BookResponse{Result: Result{Status: StatusNotFound, Message: "No such slot on the doctor's schedule."}}
	case errors.Is(err, schedule.ErrDoctorNotFound):
		return BookResponse{Result: Result{Status: StatusNotFound, Message: msgDoctorUnknown}}
	case errors.Is(err, lock.ErrLockTimeout):
		return BookResponse{Result: Result{Status: StatusError, Message: "Scheduling system is busy. Please try again."}}
	default:
		return BookResponse{Result: s.internal("book appointment", err)}
	}
}

func (s *Service) ScheduleReminders(ctx context.Context, req ScheduleRemindersRequest) ScheduleRemindersResponse {
	if err := req.Validate(); err != nil {
		return ScheduleRemindersResponse{Result: invalid(err)}
	}

	at, _ := time.Parse(time.RFC3339, req.AppointmentISO)
	jobs, err := s.reminder.Schedule(ctx, remind.ScheduleInput{
		AppointmentID: req.AppointmentID,
		AppointmentAt: at,
		Contact:       remind.Contact{Phone: req.PatientPhone, Email: req.PatientEmail},
	})
	if err != nil {
		resp := ScheduleRemindersResponse{Result: s.internal("schedule reminders", err)}
		resp.Scheduled = len(jobs)
		return resp
	}
	return ScheduleRemindersResponse{
		Result:    Result{Status: StatusSuccess, Message: fmt.Sprintf("%d reminder(s) scheduled.", len(jobs))},
		Scheduled: len(jobs),
	}
}

func (s *Service) LookupPatient(ctx context.Context, req LookupPatientRequest) PatientResponse {
	if err := req.Validate(); err != nil {
		return PatientResponse{Result: invalid(err)}
	}

	p, err := s.patients.Lookup(ctx, req.Name, req.DOB)
	if err != nil {
		if errors.Is(err, patients.ErrNotFound) {
			return PatientResponse{Result: Result{Status: StatusNotFound, Message: msgNoPatient}}
		}
		return PatientResponse{Result: s.internal("lookup patient", err)}
	}
	return patientResponse(p)
}

func (s *Service) RegisterPatient(ctx context.Context, req RegisterPatientRequest) PatientResponse {
	if err := req.Validate(); err != nil {
		return PatientResponse{Result: invalid(err)}
	}

	p, err := s.patients.Register(ctx, patients.NewPatient{
		Name:  req.Name,
		DOB:   req.DOB,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		return PatientResponse{Result: s.internal("register patient", err)}
	}
	resp := patientResponse(p)
	resp.Message = fmt.Sprintf("Patient registered with ID %d.", p.ID)
	return resp
}

func patientResponse(p *patients.Patient) PatientResponse {
	return PatientResponse{
		Result:    Result{Status: StatusSuccess},
		PatientID: p.ID,
		Name:      p.Name,
		DOB:       p.DOB,
		Phone:     p.Phone,
		Email:     p.Email,
	}
}

// doctorNotFound names the known roster so the caller can recover without a
// second listing call.
func (s *Service) doctorNotFound(ctx context.Context, doctor string) string {
	roster, err := s.booking.Doctors(ctx)
	if err != nil || len(roster) == 0 {
		return msgDoctorUnknown
	}
	return fmt.Sprintf("Doctor %q not found. Available doctors are: %s.", doctor, strings.Join(roster, ", "))
}

func invalid(err error) Result {
	return Result{Status: StatusError, Message: "Invalid request: " + err.Error()}
}

// internal logs the underlying error and returns a generic message; callers
// never see raw error text from the core.
func (s *Service) internal(op string, err error) Result {
	s.logger.Error("toolapi: "+op+" failed", "error", err)
	return Result{Status: StatusError, Message: "Internal error. Please try again."}
}
