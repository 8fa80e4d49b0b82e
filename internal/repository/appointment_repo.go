package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dmehra2102/prod-golang-projects/caresched/internal/domain/appointment"
)

type appointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) appointment.Repository {
	return &appointmentRepository{db: db}
}

// Transact serializes all schedulers of one doctor: the advisory lock is
// keyed on the doctor id and held until the transaction commits or rolls
// back, so the conflict check and the write behind it act as one unit
// even across processes.
func (r *appointmentRepository) Transact(ctx context.Context, doctorID uuid.UUID, fn func(appointment.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", doctorID.String()).Error; err != nil {
			return fmt.Errorf("acquiring doctor lock: %w", err)
		}
		return fn(&appointmentRepository{db: tx})
	})
}

func (r *appointmentRepository) Create(ctx context.Context, a *appointment.Appointment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *appointmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	var a appointment.Appointment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appointment.ErrAppointmentNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *appointmentRepository) Update(ctx context.Context, a *appointment.Appointment) error {
	res := r.db.WithContext(ctx).
		Model(&appointment.Appointment{}).
		Where("id = ?", a.ID).
		Updates(map[string]any{
			"start_time": a.StartTime,
			"end_time":   a.EndTime,
			"status":     a.Status,
			"reason":     a.Reason,
			"location":   a.Location,
			"updated_by": a.UpdatedBy,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return appointment.ErrAppointmentNotFound
	}
	return nil
}

func (r *appointmentRepository) FindConflict(ctx context.Context, doctorID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (*appointment.Appointment, error) {
	q := r.db.WithContext(ctx).
		Where("doctor_id = ? AND status = ?", doctorID, appointment.StatusScheduled).
		Where("start_time < ? AND end_time > ?", end, start)
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}

	var a appointment.Appointment
	if err := q.Order("start_time ASC").First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *appointmentRepository) List(ctx context.Context, q *appointment.ListAppointmentsQuery) (*appointment.PagedAppointments, error) {
	db := r.db.WithContext(ctx).Model(&appointment.Appointment{})

	if q.DoctorID != nil {
		db = db.Where("doctor_id = ?", *q.DoctorID)
	}
	if q.PatientID != nil {
		db = db.Where("patient_id = ?", *q.PatientID)
	}
	if q.Status != nil {
		db = db.Where("status = ?", *q.Status)
	}

	switch {
	case q.Date != nil:
		y, m, d := q.Date.UTC().Date()
		dayStart := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		dayEnd := dayStart.AddDate(0, 0, 1)
		db = db.Where("start_time < ? AND end_time > ?", dayEnd, dayStart)
	default:
		if q.From != nil {
			db = db.Where("end_time > ?", *q.From)
		}
		if q.To != nil {
			db = db.Where("start_time < ?", *q.To)
		}
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("counting appointments: %w", err)
	}

	var items []*appointment.Appointment
	offset := (q.Page - 1) * q.Limit
	if err := db.Order("start_time ASC").Offset(offset).Limit(q.Limit).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("listing appointments: %w", err)
	}

	totalPages := int((total + int64(q.Limit) - 1) / int64(q.Limit))
	return &appointment.PagedAppointments{
		Appointments: items,
		TotalCount:   total,
		Page:         q.Page,
		Limit:        q.Limit,
		TotalPages:   totalPages,
	}, nil
}
