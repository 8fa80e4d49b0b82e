package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/caresched/internal/config"
	"github.com/dmehra2102/prod-golang-projects/caresched/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/caresched/internal/service"
	"github.com/dmehra2102/prod-golang-projects/caresched/pkg/auth"
	"github.com/dmehra2102/prod-golang-projects/caresched/pkg/metrics"
)

type RouterConfig struct {
	Config     *config.Config
	Log        *zap.Logger
	JWTManager *auth.JWTManager
	Collector  *metrics.Collector

	AuthSvc    *service.AuthService
	SchedSvc   *service.ScheduleService
	ApptSvc    *service.AppointmentService
	PatientSvc *service.PatientService
}

func NewRouter(rc RouterConfig) *gin.Engine {
	if rc.Config.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(Logging(rc.Log))
	r.Use(Metrics(rc.Collector))
	r.Use(CORS(rc.Config.CORS))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"version": rc.Config.App.Version,
		})
	})
	r.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))

	authHandler := NewAuthHandler(rc.AuthSvc)
	schedHandler := NewScheduleHandler(rc.SchedSvc, rc.Collector)
	apptHandler := NewAppointmentHandler(rc.ApptSvc, rc.Collector)
	patientHandler := NewPatientHandler(rc.PatientSvc, rc.Collector)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
		authGroup.POST("/password", Authenticate(rc.JWTManager), authHandler.ChangePassword)
	}

	authed := api.Group("")
	authed.Use(Authenticate(rc.JWTManager))

	schedules := authed.Group("/schedules")
	{
		schedules.POST("/:doctorId",
			RequireRoles(domain.RoleAdmin, domain.RoleDoctor),
			schedHandler.Upsert)
		schedules.GET("/:doctorId",
			RequireRoles(domain.RoleAdmin, domain.RoleDoctor, domain.RoleNurse, domain.RoleReceptionist),
			schedHandler.Get)
		schedules.GET("/:doctorId/check",
			RequireRoles(domain.RoleAdmin, domain.RoleDoctor, domain.RoleNurse, domain.RoleReceptionist),
			schedHandler.CheckSlot)
	}

	appointments := authed.Group("/appointments")
	{
		appointments.POST("",
			RequireRoles(domain.RoleAdmin, domain.RoleReceptionist, domain.RoleDoctor),
			apptHandler.Create)
		appointments.GET("/availability", apptHandler.CheckAvailability)
		appointments.GET("",
			RequireRoles(domain.RoleAdmin, domain.RoleDoctor, domain.RoleNurse),
			apptHandler.List)
		appointments.GET("/:id", apptHandler.Get)
		appointments.PUT("/:id",
			RequireRoles(domain.RoleAdmin, domain.RoleDoctor),
			apptHandler.Update)
		// Creator-based cancel permission is enforced in the service, so
		// the route stays open to all authenticated roles.
		appointments.DELETE("/:id", apptHandler.Cancel)
	}

	patients := authed.Group("/patients")
	{
		patients.POST("",
			RequireRoles(domain.RoleAdmin, domain.RoleReceptionist),
			patientHandler.Create)
		patients.GET("/:id",
			RequireRoles(domain.RoleAdmin, domain.RoleDoctor, domain.RoleNurse, domain.RoleReceptionist),
			patientHandler.Get)
	}

	return r
}
