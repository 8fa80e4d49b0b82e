package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)

	// Update persists time, status, reason and location changes.
	Update(ctx context.Context, a *Appointment) error

	List(ctx context.Context, q *ListAppointmentsQuery) (*PagedAppointments, error)

	// FindConflict returns the first scheduled appointment of the doctor
	// overlapping [start, end), or nil when the range is free.
	// excludeID skips the appointment being rescheduled.
	FindConflict(ctx context.Context, doctorID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (*Appointment, error)

	// Transact runs fn while holding the doctor's scheduling lock, so a
	// conflict check and the write that follows execute as one unit
	// against concurrent writers. fn gets a Repository bound to the
	// same unit; an error from fn rolls everything back.
	Transact(ctx context.Context, doctorID uuid.UUID, fn func(Repository) error) error
}
