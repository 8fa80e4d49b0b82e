package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/caresched/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/caresched/internal/domain/patient"
)

// PatientService is the slim collaborator the scheduler depends on:
// registration and lookup, enough to verify a patient before booking.
type PatientService struct {
	repo     patient.Repository
	auditSvc *AuditService
	log      *zap.Logger
}

func NewPatientService(repo patient.Repository, auditSvc *AuditService, log *zap.Logger) *PatientService {
	return &PatientService{repo: repo, auditSvc: auditSvc, log: log}
}

func (s *PatientService) RegisterPatient(
	ctx context.Context,
	cmd *patient.CreatePatientCommand,
	callerRole string,
	ip string,
) (*patient.Patient, error) {
	var fields []string
	if cmd.FirstName == "" {
		fields = append(fields, "first_name is required")
	}
	if cmd.LastName == "" {
		fields = append(fields, "last_name is required")
	}
	if cmd.DateOfBirth.IsZero() {
		fields = append(fields, "date_of_birth is required")
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	p := &patient.Patient{
		FirstName:   cmd.FirstName,
		LastName:    cmd.LastName,
		DateOfBirth: cmd.DateOfBirth,
		Phone:       cmd.Phone,
		Email:       cmd.Email,
		Status:      patient.StatusActive,
		CreatedBy:   cmd.CreatedBy,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		s.log.Error("failed to register patient", zap.Error(err))
		return nil, fmt.Errorf("registering patient: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       cmd.CreatedBy,
		UserRole:     callerRole,
		Action:       string(domain.ActionCreate),
		ResourceType: "patient",
		ResourceID:   p.ID.String(),
		IPAddress:    ip,
	})

	return p, nil
}

func (s *PatientService) GetPatient(ctx context.Context, id uuid.UUID) (*patient.Patient, error) {
	return s.repo.GetByID(ctx, id)
}
