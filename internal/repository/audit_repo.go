package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/dmehra2102/prod-golang-projects/caresched/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/caresched/internal/service"
)

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) service.AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(ctx context.Context, entry *domain.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}
