package v1

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmehra2102/prod-golang-projects/caresched/internal/domain/patient"
	"github.com/dmehra2102/prod-golang-projects/caresched/internal/service"
	"github.com/dmehra2102/prod-golang-projects/caresched/pkg/metrics"
)

type PatientHandler struct {
	patientSvc *service.PatientService
	collector  *metrics.Collector
}

func NewPatientHandler(patientSvc *service.PatientService, collector *metrics.Collector) *PatientHandler {
	return &PatientHandler{patientSvc: patientSvc, collector: collector}
}

type createPatientRequest struct {
	FirstName   string    `json:"first_name" binding:"required"`
	LastName    string    `json:"last_name" binding:"required"`
	DateOfBirth time.Time `json:"date_of_birth" binding:"required"`
	Phone       string    `json:"phone"`
	Email       string    `json:"email"`
}

func (h *PatientHandler) Create(c *gin.Context) {
	var req createPatientRequest
	if !bindJSON(c, &req) {
		return
	}

	claims := claimsFrom(c)
	p, err := h.patientSvc.RegisterPatient(c.Request.Context(), &patient.CreatePatientCommand{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		DateOfBirth: req.DateOfBirth,
		Phone:       req.Phone,
		Email:       req.Email,
		CreatedBy:   claims.UserID,
	}, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.collector.PatientsRegistered.Inc()
	respondCreated(c, toPatientResponse(p))
}

func (h *PatientHandler) Get(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	p, err := h.patientSvc.GetPatient(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, toPatientResponse(p))
}
