package service

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/caresched/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/caresched/internal/domain/appointment"
	"github.com/dmehra2102/prod-golang-projects/caresched/internal/domain/patient"
	"github.com/dmehra2102/prod-golang-projects/caresched/internal/domain/schedule"
)

// In-memory repository implementations. They honor the same contracts
// the gorm repositories do, including Transact's one-writer-per-doctor
// guarantee, so the services can be exercised without a database.

type memAppointmentRepo struct {
	mu          sync.Mutex
	doctorLocks map[uuid.UUID]*sync.Mutex
	byID        map[uuid.UUID]*appointment.Appointment
}

func newMemAppointmentRepo() *memAppointmentRepo {
	return &memAppointmentRepo{
		doctorLocks: make(map[uuid.UUID]*sync.Mutex),
		byID:        make(map[uuid.UUID]*appointment.Appointment),
	}
}

func (r *memAppointmentRepo) lockFor(doctorID uuid.UUID) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.doctorLocks[doctorID]
	if !ok {
		l = &sync.Mutex{}
		r.doctorLocks[doctorID] = l
	}
	return l
}

func (r *memAppointmentRepo) Transact(ctx context.Context, doctorID uuid.UUID, fn func(appointment.Repository) error) error {
	l := r.lockFor(doctorID)
	l.Lock()
	defer l.Unlock()
	return fn(r)
}

func (r *memAppointmentRepo) Create(ctx context.Context, a *appointment.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	a.CreatedAt = time.Now()
	cp := *a
	r.byID[a.ID] = &cp
	return nil
}

func (r *memAppointmentRepo) GetByID(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return nil, appointment.ErrAppointmentNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *memAppointmentRepo) Update(ctx context.Context, a *appointment.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[a.ID]; !ok {
		return appointment.ErrAppointmentNotFound
	}
	cp := *a
	r.byID[a.ID] = &cp
	return nil
}

func (r *memAppointmentRepo) FindConflict(ctx context.Context, doctorID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (*appointment.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.byID {
		if a.DoctorID != doctorID || a.Status != appointment.StatusScheduled {
			continue
		}
		if excludeID != nil && a.ID == *excludeID {
			continue
		}
		if a.StartTime.Before(end) && a.EndTime.After(start) {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memAppointmentRepo) List(ctx context.Context, q *appointment.ListAppointmentsQuery) (*appointment.PagedAppointments, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []*appointment.Appointment
	for _, a := range r.byID {
		if q.DoctorID != nil && a.DoctorID != *q.DoctorID {
			continue
		}
		if q.PatientID != nil && a.PatientID != *q.PatientID {
			continue
		}
		if q.Status != nil && a.Status != *q.Status {
			continue
		}
		if q.Date != nil {
			y, m, d := q.Date.UTC().Date()
			dayStart := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
			dayEnd := dayStart.AddDate(0, 0, 1)
			if !a.StartTime.Before(dayEnd) || !a.EndTime.After(dayStart) {
				continue
			}
		} else {
			if q.From != nil && !a.EndTime.After(*q.From) {
				continue
			}
			if q.To != nil && !a.StartTime.Before(*q.To) {
				continue
			}
		}
		cp := *a
		items = append(items, &cp)
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].StartTime.Before(items[j].StartTime)
	})

	total := int64(len(items))
	offset := (q.Page - 1) * q.Limit
	if offset > len(items) {
		offset = len(items)
	}
	end := offset + q.Limit
	if end > len(items) {
		end = len(items)
	}
	items = items[offset:end]

	return &appointment.PagedAppointments{
		Appointments: items,
		TotalCount:   total,
		Page:         q.Page,
		Limit:        q.Limit,
		TotalPages:   int((total + int64(q.Limit) - 1) / int64(q.Limit)),
	}, nil
}

// scheduled returns every appointment of the doctor still in scheduled
// state, for invariant assertions.
func (r *memAppointmentRepo) scheduled(doctorID uuid.UUID) []*appointment.Appointment {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*appointment.Appointment
	for _, a := range r.byID {
		if a.DoctorID == doctorID && a.Status == appointment.StatusScheduled {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out
}

type memScheduleRepo struct {
	mu       sync.Mutex
	byDoctor map[uuid.UUID]*schedule.Schedule
}

func newMemScheduleRepo() *memScheduleRepo {
	return &memScheduleRepo{byDoctor: make(map[uuid.UUID]*schedule.Schedule)}
}

func (r *memScheduleRepo) Upsert(ctx context.Context, s *schedule.Schedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	cp := *s
	r.byDoctor[s.DoctorID] = &cp
	return nil
}

func (r *memScheduleRepo) GetByDoctor(ctx context.Context, doctorID uuid.UUID) (*schedule.Schedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byDoctor[doctorID]
	if !ok {
		return nil, schedule.ErrScheduleNotFound
	}
	cp := *s
	return &cp, nil
}

type memPatientRepo struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*patient.Patient
}

func newMemPatientRepo() *memPatientRepo {
	return &memPatientRepo{byID: make(map[uuid.UUID]*patient.Patient)}
}

func (r *memPatientRepo) Create(ctx context.Context, p *patient.Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	r.byID[p.ID] = &cp
	return nil
}

func (r *memPatientRepo) GetByID(ctx context.Context, id uuid.UUID) (*patient.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok || p.DeletedAt != nil {
		return nil, patient.ErrPatientNotFound
	}
	cp := *p
	return &cp, nil
}

type memAuditRepo struct{}

func (memAuditRepo) Create(ctx context.Context, entry *domain.AuditLog) error { return nil }

type testEnv struct {
	appts     *memAppointmentRepo
	schedules *memScheduleRepo
	patients  *memPatientRepo

	apptSvc  *AppointmentService
	schedSvc *ScheduleService

	patientID uuid.UUID
	doctorID  uuid.UUID
	actorID   uuid.UUID
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	log := zap.NewNop()
	audit := NewAuditService(memAuditRepo{}, nil, log)
	t.Cleanup(audit.Shutdown)

	env := &testEnv{
		appts:     newMemAppointmentRepo(),
		schedules: newMemScheduleRepo(),
		patients:  newMemPatientRepo(),
		doctorID:  uuid.New(),
		actorID:   uuid.New(),
	}
	env.apptSvc = NewAppointmentService(env.appts, env.patients, audit, log)
	env.schedSvc = NewScheduleService(env.schedules, env.appts, audit, log)

	p := &patient.Patient{
		FirstName:   "Asha",
		LastName:    "Verma",
		DateOfBirth: time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC),
		Status:      patient.StatusActive,
		CreatedBy:   env.actorID,
	}
	if err := env.patients.Create(context.Background(), p); err != nil {
		t.Fatalf("seeding patient: %v", err)
	}
	env.patientID = p.ID

	return env
}

// monday is a fixed Monday used across scheduling tests.
var monday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func mondayAt(hour, min int) time.Time {
	return time.Date(2026, 3, 2, hour, min, 0, 0, time.UTC)
}

func (e *testEnv) createCmd(start, end time.Time) *appointment.CreateAppointmentCommand {
	return &appointment.CreateAppointmentCommand{
		PatientID: e.patientID,
		DoctorID:  e.doctorID,
		StartTime: start,
		EndTime:   end,
		Reason:    "checkup",
		CreatedBy: e.actorID,
	}
}
