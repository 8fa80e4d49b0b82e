package patient

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, p *Patient) error

	// GetByID retrieves a non-deleted patient. Returns ErrPatientNotFound
	// when absent or soft-deleted.
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
}
