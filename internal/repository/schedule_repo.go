package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dmehra2102/prod-golang-projects/caresched/internal/domain/schedule"
)

type scheduleRepository struct {
	db *gorm.DB
}

func NewScheduleRepository(db *gorm.DB) schedule.Repository {
	return &scheduleRepository{db: db}
}

// Upsert replaces the whole weekly template in one statement, keyed on
// the doctor's unique index.
func (r *scheduleRepository) Upsert(ctx context.Context, s *schedule.Schedule) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "doctor_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"weekly", "updated_by", "updated_at"}),
		}).
		Create(s).Error
}

func (r *scheduleRepository) GetByDoctor(ctx context.Context, doctorID uuid.UUID) (*schedule.Schedule, error) {
	var s schedule.Schedule
	if err := r.db.WithContext(ctx).Where("doctor_id = ?", doctorID).First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, schedule.ErrScheduleNotFound
		}
		return nil, err
	}
	return &s, nil
}
