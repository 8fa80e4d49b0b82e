package appointment

import (
	"time"

	"github.com/google/uuid"

	"github.com/dmehra2102/prod-golang-projects/caresched/internal/domain/interval"
)

// State transitions possibilities:
//
//	scheduled → completed
//	scheduled → cancelled
//	scheduled → no-show
//
// completed and no-show are terminal for time changes; cancelled stays
// cancellable (idempotent).
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusNoShow    Status = "no-show"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

type Appointment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	PatientID uuid.UUID `gorm:"column:patient_id;type:uuid;not null;index"`
	DoctorID  uuid.UUID `gorm:"column:doctor_id;type:uuid;not null;index"`

	StartTime time.Time `gorm:"column:start_time;not null;index"`
	EndTime   time.Time `gorm:"column:end_time;not null"`
	Status    Status    `gorm:"column:status;type:varchar(30);not null;default:'scheduled';index"`

	Reason   string `gorm:"column:reason;type:text"`
	Location string `gorm:"column:location;type:varchar(100)"`

	CreatedBy uuid.UUID  `gorm:"column:created_by;type:uuid;not null"`
	UpdatedBy *uuid.UUID `gorm:"column:updated_by;type:uuid"`
}

func (Appointment) TableName() string {
	return "clinical.appointments"
}

func (a *Appointment) Interval() interval.Interval {
	return interval.Interval{Start: a.StartTime, End: a.EndTime}
}

func (a *Appointment) CanTransitionTo(newStatus Status) bool {
	allowed := map[Status][]Status{
		StatusScheduled: {StatusCompleted, StatusCancelled, StatusNoShow},
		StatusCompleted: {},
		StatusCancelled: {},
		StatusNoShow:    {StatusCancelled},
	}

	for _, s := range allowed[a.Status] {
		if s == newStatus {
			return true
		}
	}
	return false
}

// Cancel marks the appointment cancelled. Cancelling an already
// cancelled appointment succeeds without changes; cancelling a
// completed one is rejected.
func (a *Appointment) Cancel(cancelledBy uuid.UUID) error {
	if a.Status == StatusCancelled {
		return nil
	}
	if !a.CanTransitionTo(StatusCancelled) {
		return ErrInvalidStatusTransition
	}
	a.Status = StatusCancelled
	a.UpdatedBy = &cancelledBy
	return nil
}

type CreateAppointmentCommand struct {
	PatientID uuid.UUID
	DoctorID  uuid.UUID
	StartTime time.Time
	EndTime   time.Time
	Reason    string
	Location  string
	CreatedBy uuid.UUID
}

// UpdateAppointmentCommand carries a partial patch; nil fields stay
// untouched. Time changes go through the conflict engine first.
type UpdateAppointmentCommand struct {
	StartTime *time.Time
	EndTime   *time.Time
	Status    *Status
	Reason    *string
	Location  *string
	UpdatedBy uuid.UUID
}

type ListAppointmentsQuery struct {
	DoctorID  *uuid.UUID
	PatientID *uuid.UUID
	Status    *Status

	// Date selects one UTC calendar day; From/To select an open-ended
	// range. Date wins when both are set.
	Date *time.Time
	From *time.Time
	To   *time.Time

	Page  int
	Limit int
}

type PagedAppointments struct {
	Appointments []*Appointment
	TotalCount   int64
	Page         int
	Limit        int
	TotalPages   int
}
