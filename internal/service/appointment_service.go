package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/caresched/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/caresched/internal/domain/appointment"
	"github.com/dmehra2102/prod-golang-projects/caresched/internal/domain/interval"
	"github.com/dmehra2102/prod-golang-projects/caresched/internal/domain/patient"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 500
)

type AppointmentService struct {
	repo        appointment.Repository
	patientRepo patient.Repository
	auditSvc    *AuditService
	log         *zap.Logger
}

func NewAppointmentService(
	repo appointment.Repository,
	patientRepo patient.Repository,
	auditSvc *AuditService,
	log *zap.Logger,
) *AppointmentService {
	return &AppointmentService{repo: repo, patientRepo: patientRepo, auditSvc: auditSvc, log: log}
}

// AvailabilityResult is the read-only probe answer: whether the range is
// free, and the first conflicting appointment as evidence when it isn't.
type AvailabilityResult struct {
	Available bool
	Conflict  *appointment.Appointment
}

// CreateAppointment books a doctor for [start, end). The conflict check
// and the insert run as one unit under the doctor's scheduling lock, so
// two concurrent requests for overlapping ranges cannot both succeed.
func (s *AppointmentService) CreateAppointment(
	ctx context.Context,
	cmd *appointment.CreateAppointmentCommand,
	callerRole string,
	ip string,
) (*appointment.Appointment, error) {
	// -------- Input Validation -----------
	var fields []string
	if cmd.PatientID == uuid.Nil {
		fields = append(fields, "patient_id is required")
	}
	if cmd.DoctorID == uuid.Nil {
		fields = append(fields, "doctor_id is required")
	}
	if _, err := interval.New(cmd.StartTime, cmd.EndTime); err != nil {
		fields = append(fields, "end_time must be after start_time")
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	// ── Verify patient exists and is bookable ──────────────────────────────
	p, err := s.patientRepo.GetByID(ctx, cmd.PatientID)
	if err != nil {
		return nil, fmt.Errorf("verifying patient: %w", err)
	}
	if !p.IsActive() {
		return nil, patient.ErrPatientInactive
	}

	a := &appointment.Appointment{
		PatientID: cmd.PatientID,
		DoctorID:  cmd.DoctorID,
		StartTime: cmd.StartTime,
		EndTime:   cmd.EndTime,
		Status:    appointment.StatusScheduled,
		Reason:    cmd.Reason,
		Location:  cmd.Location,
		CreatedBy: cmd.CreatedBy,
	}

	err = s.repo.Transact(ctx, cmd.DoctorID, func(tx appointment.Repository) error {
		conflict, err := tx.FindConflict(ctx, cmd.DoctorID, cmd.StartTime, cmd.EndTime, nil)
		if err != nil {
			return fmt.Errorf("checking conflicts: %w", err)
		}
		if conflict != nil {
			return appointment.ErrAppointmentConflict
		}
		return tx.Create(ctx, a)
	})
	if err != nil {
		if errors.Is(err, appointment.ErrAppointmentConflict) {
			return nil, err
		}
		s.log.Error("failed to create appointment",
			zap.String("doctor_id", cmd.DoctorID.String()),
			zap.Time("start_time", cmd.StartTime),
			zap.Error(err),
		)
		return nil, fmt.Errorf("creating appointment: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       cmd.CreatedBy,
		UserRole:     callerRole,
		Action:       string(domain.ActionCreate),
		ResourceType: "appointment",
		ResourceID:   a.ID.String(),
		IPAddress:    ip,
	})

	return a, nil
}

func (s *AppointmentService) GetAppointment(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateAppointment applies a partial patch. Time changes are only
// allowed while the appointment is still scheduled and re-run the
// conflict check (excluding the appointment itself) under the doctor's
// lock; a conflict leaves the stored record untouched.
func (s *AppointmentService) UpdateAppointment(
	ctx context.Context,
	id uuid.UUID,
	cmd *appointment.UpdateAppointmentCommand,
	callerRole string,
	ip string,
) (*appointment.Appointment, error) {
	if cmd.Status != nil && !cmd.Status.IsValid() {
		return nil, &ValidationError{Fields: []string{fmt.Sprintf("unknown status %q", *cmd.Status)}}
	}

	// First load is only for routing the lock to the right doctor.
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var updated *appointment.Appointment
	err = s.repo.Transact(ctx, existing.DoctorID, func(tx appointment.Repository) error {
		a, err := tx.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if cmd.StartTime != nil || cmd.EndTime != nil {
			if a.Status != appointment.StatusScheduled {
				return appointment.ErrNotReschedulable
			}

			newStart := a.StartTime
			newEnd := a.EndTime
			if cmd.StartTime != nil {
				newStart = *cmd.StartTime
			}
			if cmd.EndTime != nil {
				newEnd = *cmd.EndTime
			}
			if _, err := interval.New(newStart, newEnd); err != nil {
				return &ValidationError{Fields: []string{"end_time must be after start_time"}}
			}

			conflict, err := tx.FindConflict(ctx, a.DoctorID, newStart, newEnd, &id)
			if err != nil {
				return fmt.Errorf("checking conflicts: %w", err)
			}
			if conflict != nil {
				return appointment.ErrAppointmentConflict
			}

			a.StartTime = newStart
			a.EndTime = newEnd
		}

		if cmd.Status != nil && *cmd.Status != a.Status {
			if !a.CanTransitionTo(*cmd.Status) {
				return appointment.ErrInvalidStatusTransition
			}
			a.Status = *cmd.Status
		}
		if cmd.Reason != nil {
			a.Reason = *cmd.Reason
		}
		if cmd.Location != nil {
			a.Location = *cmd.Location
		}
		a.UpdatedBy = &cmd.UpdatedBy

		if err := tx.Update(ctx, a); err != nil {
			return fmt.Errorf("updating appointment: %w", err)
		}
		updated = a
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       cmd.UpdatedBy,
		UserRole:     callerRole,
		Action:       string(domain.ActionUpdate),
		ResourceType: "appointment",
		ResourceID:   id.String(),
		IPAddress:    ip,
	})

	return updated, nil
}

// CancelAppointment soft-cancels. Admins and doctors may cancel any
// appointment; other roles only what they created themselves. The
// transition check and the write run under the doctor's lock on a fresh
// read, so a concurrent completion cannot be overwritten.
func (s *AppointmentService) CancelAppointment(
	ctx context.Context,
	id uuid.UUID,
	callerID uuid.UUID,
	callerRole string,
	ip string,
) (*appointment.Appointment, error) {
	// First load is only for routing the lock to the right doctor.
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var cancelled *appointment.Appointment
	err = s.repo.Transact(ctx, existing.DoctorID, func(tx appointment.Repository) error {
		a, err := tx.GetByID(ctx, id)
		if err != nil {
			return err
		}

		switch domain.Role(callerRole) {
		case domain.RoleAdmin, domain.RoleDoctor:
		default:
			if a.CreatedBy != callerID {
				return ErrForbidden
			}
		}

		if err := a.Cancel(callerID); err != nil {
			return err
		}

		if err := tx.Update(ctx, a); err != nil {
			return fmt.Errorf("updating appointment status: %w", err)
		}
		cancelled = a
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		UserRole:     callerRole,
		Action:       string(domain.ActionUpdate),
		ResourceType: "appointment",
		ResourceID:   id.String(),
		IPAddress:    ip,
		Changes:      `{"status":"cancelled"}`,
	})

	return cancelled, nil
}

// CheckAvailability is the read-only probe schedulers call before
// committing a create. It never writes; a later create re-runs the
// check under the doctor's lock.
func (s *AppointmentService) CheckAvailability(
	ctx context.Context,
	doctorID uuid.UUID,
	start, end time.Time,
) (*AvailabilityResult, error) {
	if doctorID == uuid.Nil {
		return nil, &ValidationError{Fields: []string{"doctor_id is required"}}
	}
	if _, err := interval.New(start, end); err != nil {
		return nil, &ValidationError{Fields: []string{"end must be after start"}}
	}

	conflict, err := s.repo.FindConflict(ctx, doctorID, start, end, nil)
	if err != nil {
		return nil, fmt.Errorf("checking availability: %w", err)
	}

	return &AvailabilityResult{Available: conflict == nil, Conflict: conflict}, nil
}

func (s *AppointmentService) ListAppointments(ctx context.Context, q *appointment.ListAppointmentsQuery) (*appointment.PagedAppointments, error) {
	if q.Limit <= 0 {
		q.Limit = defaultPageLimit
	}
	if q.Limit > maxPageLimit {
		q.Limit = maxPageLimit
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	return s.repo.List(ctx, q)
}
