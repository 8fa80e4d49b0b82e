package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dmehra2102/prod-golang-projects/caresched/internal/domain/patient"
)

type patientRepository struct {
	db *gorm.DB
}

func NewPatientRepository(db *gorm.DB) patient.Repository {
	return &patientRepository{db: db}
}

func (r *patientRepository) Create(ctx context.Context, p *patient.Patient) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *patientRepository) GetByID(ctx context.Context, id uuid.UUID) (*patient.Patient, error) {
	var p patient.Patient
	err := r.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, patient.ErrPatientNotFound
		}
		return nil, err
	}
	return &p, nil
}
