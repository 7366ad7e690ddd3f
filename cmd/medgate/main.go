package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/telecare/medgate/internal/config"
	"github.com/telecare/medgate/internal/domain/appointment"
	v1 "github.com/telecare/medgate/internal/handler/v1"
	"github.com/telecare/medgate/internal/repository"
	"github.com/telecare/medgate/internal/resolver"
	"github.com/telecare/medgate/internal/service"
	"github.com/telecare/medgate/pkg/auth"
	"github.com/telecare/medgate/pkg/database"
	"github.com/telecare/medgate/pkg/logger"
	"github.com/telecare/medgate/pkg/metrics"
	"github.com/telecare/medgate/pkg/tracer"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "medgate: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	tp, err := tracer.Init(cfg.Tracing)
	if err != nil {
		return fmt.Errorf("initializing tracer: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		_ = tp.Shutdown(shutdownCtx)
	}()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return err
	}
	if err := database.Migrate(db, log); err != nil {
		return err
	}

	collector := metrics.NewCollector("medgate")
	if sqlDB, dbErr := db.DB(); dbErr == nil {
		go func() {
			ticker := time.NewTicker(15 * time.Second)
			defer ticker.Stop()
			for range ticker.C {
				collector.DBConnections.Set(float64(sqlDB.Stats().OpenConnections))
			}
		}()
	}

	jwtManager := auth.NewJWTManager(cfg.JWT)

	userRepo := repository.NewUserRepository(db)
	patientRepo := repository.NewPatientRepository(db)
	appointmentRepo := repository.NewAppointmentRepository(db)
	consentRepo := repository.NewConsentRepository(db)
	emergencyRepo := repository.NewEmergencyRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	auditSvc := service.NewAuditService(auditRepo, log, collector, cfg.Audit.WriteTimeout)
	accessSvc := service.NewAccessService(
		resolver.NewAppointmentRelationship(appointmentRepo, patientRepo, appointment.RelationshipWindow{
			Lookback:  cfg.Access.RelationshipLookback,
			Lookahead: cfg.Access.RelationshipLookahead,
		}),
		resolver.NewStoreConsent(consentRepo),
		resolver.NewDispatchEmergency(emergencyRepo),
		auditSvc,
		log,
		collector,
		cfg.Access.ResolverTimeout,
	)
	consentSvc := service.NewConsentService(consentRepo, auditSvc, log, collector)
	patientSvc := service.NewPatientService(patientRepo, accessSvc, log)
	authSvc := service.NewAuthService(userRepo, jwtManager, auditSvc, log)

	router := v1.NewRouter(v1.RouterDeps{
		JWTManager: jwtManager,
		Collector:  collector,
		Auth:       v1.NewAuthHandler(authSvc),
		Access:     v1.NewAccessHandler(accessSvc),
		Patients:   v1.NewPatientHandler(patientSvc),
		Consents:   v1.NewConsentHandler(consentSvc),
		Audit:      v1.NewAuditHandler(auditSvc),
	})

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.App.Environment),
			zap.String("version", cfg.App.Version),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	return nil
}
