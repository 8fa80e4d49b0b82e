package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmehra2102/prod-golang-projects/caresched/internal/domain/schedule"
	"github.com/dmehra2102/prod-golang-projects/caresched/internal/service"
	"github.com/dmehra2102/prod-golang-projects/caresched/pkg/metrics"
)

type ScheduleHandler struct {
	schedSvc  *service.ScheduleService
	collector *metrics.Collector
}

func NewScheduleHandler(schedSvc *service.ScheduleService, collector *metrics.Collector) *ScheduleHandler {
	return &ScheduleHandler{schedSvc: schedSvc, collector: collector}
}

type upsertScheduleRequest struct {
	Weekly []schedule.DaySchedule `json:"weekly" binding:"required"`
}

func (h *ScheduleHandler) Upsert(c *gin.Context) {
	doctorID, ok := parseUUID(c, "doctorId")
	if !ok {
		return
	}

	var req upsertScheduleRequest
	if !bindJSON(c, &req) {
		return
	}

	claims := claimsFrom(c)
	sched, err := h.schedSvc.UpsertSchedule(c.Request.Context(), &schedule.UpsertScheduleCommand{
		DoctorID: doctorID,
		Weekly:   req.Weekly,
		ActorID:  claims.UserID,
	}, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.collector.SchedulesUpserted.Inc()
	respondOK(c, toScheduleResponse(sched))
}

func (h *ScheduleHandler) Get(c *gin.Context) {
	doctorID, ok := parseUUID(c, "doctorId")
	if !ok {
		return
	}

	sched, err := h.schedSvc.GetSchedule(c.Request.Context(), doctorID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, toScheduleResponse(sched))
}

// CheckSlot answers GET /schedules/:doctorId/check?date=YYYY-MM-DD&start=HH:MM&end=HH:MM.
func (h *ScheduleHandler) CheckSlot(c *gin.Context) {
	doctorID, ok := parseUUID(c, "doctorId")
	if !ok {
		return
	}

	date, ok := parseQueryDate(c, "date")
	if !ok {
		return
	}
	if date == nil {
		respondError(c, http.StatusBadRequest, "date is required")
		return
	}

	startClock := c.Query("start")
	endClock := c.Query("end")
	if startClock == "" || endClock == "" {
		respondError(c, http.StatusBadRequest, "start and end are required")
		return
	}

	res, err := h.schedSvc.CheckSlot(c.Request.Context(), doctorID, *date, startClock, endClock)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.collector.SlotChecksTotal.WithLabelValues(res.Reason).Inc()

	resp := slotCheckResponse{Available: res.Available, Reason: res.Reason}
	if res.Conflict != nil {
		conflict := toAppointmentResponse(res.Conflict)
		resp.Conflict = &conflict
	}
	respondOK(c, resp)
}
