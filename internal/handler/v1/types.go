package v1

import (
	"time"

	"github.com/google/uuid"

	"github.com/dmehra2102/prod-golang-projects/caresched/internal/domain/appointment"
	"github.com/dmehra2102/prod-golang-projects/caresched/internal/domain/patient"
	"github.com/dmehra2102/prod-golang-projects/caresched/internal/domain/schedule"
)

type appointmentResponse struct {
	ID        uuid.UUID `json:"id"`
	PatientID uuid.UUID `json:"patient_id"`
	DoctorID  uuid.UUID `json:"doctor_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Status    string    `json:"status"`
	Reason    string    `json:"reason,omitempty"`
	Location  string    `json:"location,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toAppointmentResponse(a *appointment.Appointment) appointmentResponse {
	return appointmentResponse{
		ID:        a.ID,
		PatientID: a.PatientID,
		DoctorID:  a.DoctorID,
		StartTime: a.StartTime,
		EndTime:   a.EndTime,
		Status:    string(a.Status),
		Reason:    a.Reason,
		Location:  a.Location,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

type pagedAppointmentsResponse struct {
	Appointments []appointmentResponse `json:"appointments"`
	TotalCount   int64                 `json:"total_count"`
	Page         int                   `json:"page"`
	Limit        int                   `json:"limit"`
	TotalPages   int                   `json:"total_pages"`
}

func toPagedAppointmentsResponse(p *appointment.PagedAppointments) pagedAppointmentsResponse {
	items := make([]appointmentResponse, 0, len(p.Appointments))
	for _, a := range p.Appointments {
		items = append(items, toAppointmentResponse(a))
	}
	return pagedAppointmentsResponse{
		Appointments: items,
		TotalCount:   p.TotalCount,
		Page:         p.Page,
		Limit:        p.Limit,
		TotalPages:   p.TotalPages,
	}
}

type availabilityResponse struct {
	Available bool                 `json:"available"`
	Conflict  *appointmentResponse `json:"conflict,omitempty"`
}

type slotCheckResponse struct {
	Available bool                 `json:"available"`
	Reason    string               `json:"reason"`
	Conflict  *appointmentResponse `json:"conflict,omitempty"`
}

type scheduleResponse struct {
	DoctorID  uuid.UUID              `json:"doctor_id"`
	Weekly    []schedule.DaySchedule `json:"weekly"`
	UpdatedAt time.Time              `json:"updated_at"`
}

func toScheduleResponse(s *schedule.Schedule) scheduleResponse {
	return scheduleResponse{
		DoctorID:  s.DoctorID,
		Weekly:    s.Weekly,
		UpdatedAt: s.UpdatedAt,
	}
}

type patientResponse struct {
	ID          uuid.UUID `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	DateOfBirth time.Time `json:"date_of_birth"`
	Phone       string    `json:"phone,omitempty"`
	Email       string    `json:"email,omitempty"`
	Status      string    `json:"status"`
}

func toPatientResponse(p *patient.Patient) patientResponse {
	return patientResponse{
		ID:          p.ID,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		DateOfBirth: p.DateOfBirth,
		Phone:       p.Phone,
		Email:       p.Email,
		Status:      string(p.Status),
	}
}
