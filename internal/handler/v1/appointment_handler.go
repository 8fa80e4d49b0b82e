package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dmehra2102/prod-golang-projects/caresched/internal/domain/appointment"
	"github.com/dmehra2102/prod-golang-projects/caresched/internal/service"
	"github.com/dmehra2102/prod-golang-projects/caresched/pkg/metrics"
)

type AppointmentHandler struct {
	apptSvc   *service.AppointmentService
	collector *metrics.Collector
}

func NewAppointmentHandler(apptSvc *service.AppointmentService, collector *metrics.Collector) *AppointmentHandler {
	return &AppointmentHandler{apptSvc: apptSvc, collector: collector}
}

type createAppointmentRequest struct {
	PatientID uuid.UUID `json:"patient_id" binding:"required"`
	DoctorID  uuid.UUID `json:"doctor_id" binding:"required"`
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
	Reason    string    `json:"reason"`
	Location  string    `json:"location"`
}

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req createAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	claims := claimsFrom(c)
	a, err := h.apptSvc.CreateAppointment(c.Request.Context(), &appointment.CreateAppointmentCommand{
		PatientID: req.PatientID,
		DoctorID:  req.DoctorID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Reason:    req.Reason,
		Location:  req.Location,
		CreatedBy: claims.UserID,
	}, string(claims.Role), c.ClientIP())
	if err != nil {
		if errors.Is(err, appointment.ErrAppointmentConflict) {
			h.collector.ConflictsDetected.Inc()
		}
		respondServiceError(c, err)
		return
	}

	h.collector.AppointmentsTotal.WithLabelValues("create").Inc()
	respondCreated(c, toAppointmentResponse(a))
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	a, err := h.apptSvc.GetAppointment(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, toAppointmentResponse(a))
}

type updateAppointmentRequest struct {
	StartTime *time.Time          `json:"start_time"`
	EndTime   *time.Time          `json:"end_time"`
	Status    *appointment.Status `json:"status"`
	Reason    *string             `json:"reason"`
	Location  *string             `json:"location"`
}

func (h *AppointmentHandler) Update(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req updateAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	claims := claimsFrom(c)
	a, err := h.apptSvc.UpdateAppointment(c.Request.Context(), id, &appointment.UpdateAppointmentCommand{
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Status:    req.Status,
		Reason:    req.Reason,
		Location:  req.Location,
		UpdatedBy: claims.UserID,
	}, string(claims.Role), c.ClientIP())
	if err != nil {
		if errors.Is(err, appointment.ErrAppointmentConflict) {
			h.collector.ConflictsDetected.Inc()
		}
		respondServiceError(c, err)
		return
	}

	h.collector.AppointmentsTotal.WithLabelValues("update").Inc()
	respondOK(c, toAppointmentResponse(a))
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	claims := claimsFrom(c)
	a, err := h.apptSvc.CancelAppointment(c.Request.Context(), id, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.collector.AppointmentsTotal.WithLabelValues("cancel").Inc()
	respondOK(c, toAppointmentResponse(a))
}

// CheckAvailability answers GET /appointments/availability?doctorId&start&end
// with RFC 3339 timestamps. Read-only: a later create re-checks under
// the doctor's lock.
func (h *AppointmentHandler) CheckAvailability(c *gin.Context) {
	doctorID, err := uuid.Parse(c.Query("doctorId"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid doctorId: must be a valid UUID")
		return
	}

	start, ok := parseQueryTime(c, "start")
	if !ok {
		return
	}
	end, ok := parseQueryTime(c, "end")
	if !ok {
		return
	}
	if start == nil || end == nil {
		respondError(c, http.StatusBadRequest, "start and end are required")
		return
	}

	res, err := h.apptSvc.CheckAvailability(c.Request.Context(), doctorID, *start, *end)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	resp := availabilityResponse{Available: res.Available}
	if res.Conflict != nil {
		conflict := toAppointmentResponse(res.Conflict)
		resp.Conflict = &conflict
	}
	respondOK(c, resp)
}

func (h *AppointmentHandler) List(c *gin.Context) {
	q := &appointment.ListAppointmentsQuery{
		Page:  parseQueryInt(c, "page", 1),
		Limit: parseQueryInt(c, "limit", 0),
	}

	if raw := c.Query("doctorId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid doctorId: must be a valid UUID")
			return
		}
		q.DoctorID = &id
	}
	if raw := c.Query("patientId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid patientId: must be a valid UUID")
			return
		}
		q.PatientID = &id
	}
	if raw := c.Query("status"); raw != "" {
		status := appointment.Status(raw)
		if !status.IsValid() {
			respondError(c, http.StatusBadRequest, "unknown status "+raw)
			return
		}
		q.Status = &status
	}

	var ok bool
	if q.Date, ok = parseQueryDate(c, "date"); !ok {
		return
	}
	if q.From, ok = parseQueryTime(c, "from"); !ok {
		return
	}
	if q.To, ok = parseQueryTime(c, "to"); !ok {
		return
	}

	page, err := h.apptSvc.ListAppointments(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, toPagedAppointmentsResponse(page))
}
