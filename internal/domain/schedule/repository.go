package schedule

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Upsert replaces a doctor's whole weekly template in one write.
	Upsert(ctx context.Context, s *Schedule) error

	// GetByDoctor returns the template or ErrScheduleNotFound.
	GetByDoctor(ctx context.Context, doctorID uuid.UUID) (*Schedule, error)
}
