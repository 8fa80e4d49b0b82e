package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/caresched/internal/config"
	v1 "github.com/dmehra2102/prod-golang-projects/caresched/internal/handler/v1"
	"github.com/dmehra2102/prod-golang-projects/caresched/internal/repository"
	"github.com/dmehra2102/prod-golang-projects/caresched/internal/service"
	"github.com/dmehra2102/prod-golang-projects/caresched/pkg/auth"
	"github.com/dmehra2102/prod-golang-projects/caresched/pkg/database"
	"github.com/dmehra2102/prod-golang-projects/caresched/pkg/logger"
	"github.com/dmehra2102/prod-golang-projects/caresched/pkg/metrics"
	"github.com/dmehra2102/prod-golang-projects/caresched/pkg/tracer"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zlog, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("building logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	zlog.Info("starting up",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("env", cfg.App.Environment),
	)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, err := tracer.Init(cfg.Tracing)
	if err != nil {
		zlog.Fatal("initializing tracer", zap.Error(err))
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		zlog.Fatal("connecting to database", zap.Error(err))
	}
	if err := database.Migrate(db, zlog); err != nil {
		zlog.Fatal("running migrations", zap.Error(err))
	}

	collector := metrics.NewCollector("caresched")
	jwtManager := auth.NewJWTManager(cfg.JWT)

	apptRepo := repository.NewAppointmentRepository(db)
	schedRepo := repository.NewScheduleRepository(db)
	patientRepo := repository.NewPatientRepository(db)
	userRepo := repository.NewUserRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	auditSvc := service.NewAuditService(auditRepo, collector, zlog)
	authSvc := service.NewAuthService(userRepo, jwtManager, zlog)
	apptSvc := service.NewAppointmentService(apptRepo, patientRepo, auditSvc, zlog)
	schedSvc := service.NewScheduleService(schedRepo, apptRepo, auditSvc, zlog)
	patientSvc := service.NewPatientService(patientRepo, auditSvc, zlog)

	router := v1.NewRouter(v1.RouterConfig{
		Config:     cfg,
		Log:        zlog,
		JWTManager: jwtManager,
		Collector:  collector,
		AuthSvc:    authSvc,
		SchedSvc:   schedSvc,
		ApptSvc:    apptSvc,
		PatientSvc: patientSvc,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		zlog.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-rootCtx.Done()
	zlog.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("http server shutdown", zap.Error(err))
	}

	// Flush buffered audit entries before closing the database.
	auditSvc.Shutdown()

	if err := tp.Shutdown(shutdownCtx); err != nil {
		zlog.Error("tracer shutdown", zap.Error(err))
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	zlog.Info("shutdown complete")
}
