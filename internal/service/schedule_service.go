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
	"github.com/dmehra2102/prod-golang-projects/caresched/internal/domain/schedule"
)

// Availability-check outcomes. Slots are available windows: a candidate
// range must be fully contained in one slot, then free of booked
// conflicts.
const (
	ReasonAvailable     = "available"
	ReasonNoSchedule    = "no-schedule"
	ReasonNonWorkingDay = "non-working-day"
	ReasonOutsideHours  = "outside-working-hours"
	ReasonBooked        = "booked"
)

// SlotCheck is the answer to "can doctor D see a patient on this date at
// this time of day".
type SlotCheck struct {
	Available bool
	Reason    string
	Conflict  *appointment.Appointment
}

type ScheduleService struct {
	repo     schedule.Repository
	apptRepo appointment.Repository
	auditSvc *AuditService
	log      *zap.Logger
}

func NewScheduleService(
	repo schedule.Repository,
	apptRepo appointment.Repository,
	auditSvc *AuditService,
	log *zap.Logger,
) *ScheduleService {
	return &ScheduleService{repo: repo, apptRepo: apptRepo, auditSvc: auditSvc, log: log}
}

// UpsertSchedule replaces a doctor's whole weekly template. Overlapping
// slots within a day are rejected.
func (s *ScheduleService) UpsertSchedule(
	ctx context.Context,
	cmd *schedule.UpsertScheduleCommand,
	callerRole string,
	ip string,
) (*schedule.Schedule, error) {
	var fields []string
	if cmd.DoctorID == uuid.Nil {
		fields = append(fields, "doctor_id is required")
	}
	if len(cmd.Weekly) == 0 {
		fields = append(fields, "weekly schedule is required")
	}
	fields = append(fields, schedule.ValidateWeekly(cmd.Weekly)...)
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	sched := &schedule.Schedule{
		DoctorID:  cmd.DoctorID,
		Weekly:    cmd.Weekly,
		CreatedBy: cmd.ActorID,
		UpdatedBy: &cmd.ActorID,
	}
	if err := s.repo.Upsert(ctx, sched); err != nil {
		s.log.Error("failed to upsert schedule",
			zap.String("doctor_id", cmd.DoctorID.String()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("upserting schedule: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       cmd.ActorID,
		UserRole:     callerRole,
		Action:       string(domain.ActionUpdate),
		ResourceType: "schedule",
		ResourceID:   cmd.DoctorID.String(),
		IPAddress:    ip,
	})

	return sched, nil
}

func (s *ScheduleService) GetSchedule(ctx context.Context, doctorID uuid.UUID) (*schedule.Schedule, error) {
	return s.repo.GetByDoctor(ctx, doctorID)
}

// CheckSlot answers the availability probe for one calendar date:
//  1. no template for the doctor → no-schedule
//  2. no slots on that weekday → non-working-day
//  3. candidate not contained in any slot → outside-working-hours
//  4. overlap with a scheduled appointment → booked (with evidence)
func (s *ScheduleService) CheckSlot(
	ctx context.Context,
	doctorID uuid.UUID,
	date time.Time,
	startClock, endClock string,
) (*SlotCheck, error) {
	start, err := schedule.ParseClock(startClock)
	if err != nil {
		return nil, &ValidationError{Fields: []string{err.Error()}}
	}
	end, err := schedule.ParseClock(endClock)
	if err != nil {
		return nil, &ValidationError{Fields: []string{err.Error()}}
	}
	if end <= start {
		return nil, &ValidationError{Fields: []string{"end must be after start"}}
	}

	// The weekday and the probed window must come from the same calendar
	// day regardless of the caller's zone.
	date = date.UTC()

	sched, err := s.repo.GetByDoctor(ctx, doctorID)
	if err != nil {
		if errors.Is(err, schedule.ErrScheduleNotFound) {
			return &SlotCheck{Available: false, Reason: ReasonNoSchedule}, nil
		}
		return nil, fmt.Errorf("loading schedule: %w", err)
	}

	day := sched.DayFor(schedule.WeekdayOf(date))
	if day == nil || len(day.Slots) == 0 {
		return &SlotCheck{Available: false, Reason: ReasonNonWorkingDay}, nil
	}

	contained := false
	for _, slot := range day.Slots {
		if slot.ContainsRange(start, end) {
			contained = true
			break
		}
	}
	if !contained {
		return &SlotCheck{Available: false, Reason: ReasonOutsideHours}, nil
	}

	// Anchor the wall-clock range to the requested date and probe the
	// appointment book.
	y, m, d := date.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	conflict, err := s.apptRepo.FindConflict(ctx, doctorID, midnight.Add(start), midnight.Add(end), nil)
	if err != nil {
		return nil, fmt.Errorf("checking booked conflicts: %w", err)
	}
	if conflict != nil {
		return &SlotCheck{Available: false, Reason: ReasonBooked, Conflict: conflict}, nil
	}

	return &SlotCheck{Available: true, Reason: ReasonAvailable}, nil
}
