package database

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/telecare/medgate/internal/config"
	"github.com/telecare/medgate/internal/domain"
	"github.com/telecare/medgate/internal/domain/appointment"
	"github.com/telecare/medgate/internal/domain/consent"
	"github.com/telecare/medgate/internal/domain/emergency"
	"github.com/telecare/medgate/internal/domain/patient"
)

func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
		PrepareStmt:                              true,
		DisableForeignKeyConstraintWhenMigrating: false,
		DisableAutomaticPing:                     false,
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: false,
	}), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	// Configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}

func Migrate(db *gorm.DB, log *zap.Logger) error {
	log.Info("running database migrations")
	start := time.Now()

	schemas := []string{"clinical", "consent", "auth", "audit"} // logical namespace
	for _, schema := range schemas {
		if err := db.Exec(fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", schema)).Error; err != nil {
			return fmt.Errorf("creating schema %s: %w", schema, err)
		}
	}

	models := []any{
		&domain.User{},
		&domain.AuditEntry{},
		&patient.Record{},
		&appointment.Appointment{},
		&consent.Record{},
		&emergency.TransportRequest{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto-migrating models: %w", err)
	}

	if err := createIndexes(db); err != nil {
		return fmt.Errorf("creating indexes: %w", err)
	}

	log.Info("migrations completed", zap.Duration("duration", time.Since(start)))
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []struct {
		name  string
		query string
	}{
		// Relationship resolution: appointments that still count, by pair and time
		{
			name:  "idx_appointments_relationship",
			query: `CREATE INDEX IF NOT EXISTS idx_appointments_relationship ON clinical.appointments (clinician_id, patient_id, scheduled_at) WHERE deleted_at IS NULL AND status NOT IN ('cancelled', 'no_show')`,
		},
		// Consent resolution: latest grant per pair
		{
			name:  "idx_consent_pair_latest",
			query: `CREATE INDEX IF NOT EXISTS idx_consent_pair_latest ON consent.grants (patient_id, clinician_id, granted_at DESC)`,
		},
		// Emergency resolution: unresolved episodes per patient
		{
			name:  "idx_emergency_active",
			query: `CREATE INDEX IF NOT EXISTS idx_emergency_active ON clinical.emergency_transports (patient_id) WHERE status IN ('requested', 'dispatched', 'en_route', 'on_scene')`,
		},
		// Audit trail search paths
		{
			name:  "idx_audit_actor_time",
			query: `CREATE INDEX IF NOT EXISTS idx_audit_actor_time ON audit.entries (actor_id, occurred_at DESC)`,
		},
		{
			name:  "idx_audit_resource_time",
			query: `CREATE INDEX IF NOT EXISTS idx_audit_resource_time ON audit.entries (resource_id, occurred_at DESC)`,
		},
	}

	for _, idx := range indexes {
		if err := db.Exec(idx.query).Error; err != nil {
			return fmt.Errorf("creating index %s: %w", idx.name, err)
		}
	}

	return nil
}
