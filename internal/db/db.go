package db

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/binda/internal/config"
	"github.com/BruksfildServices01/binda/internal/models"
)

// Open connects to Postgres with the pool settings used in production.
func Open(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
		NowFunc:     func() time.Time { return time.Now().UTC() },
		Logger:      logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	return db, nil
}

// Migrate creates or updates every table. On Postgres it also installs the
// exclusion constraint that keeps occupying appointments of one staff member
// from overlapping.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Tenant{},
		&models.User{},
		&models.Service{},
		&models.Staff{},
		&models.ServiceStaff{},
		&models.StaffWorkingHours{},
		&models.Customer{},
		&models.Appointment{},
		&models.SlotLock{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	if !IsPostgres(db) {
		return nil
	}

	for _, stmt := range postgresConstraints {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migrate constraints: %w", err)
		}
	}
	return nil
}

// IsPostgres reports whether row locks and advisory locks are available.
func IsPostgres(db *gorm.DB) bool {
	return db.Dialector.Name() == "postgres"
}

var postgresConstraints = []string{
	`CREATE EXTENSION IF NOT EXISTS btree_gist`,
	`DO $$
BEGIN
	IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'appointments_staff_no_overlap') THEN
		ALTER TABLE appointments
			ADD CONSTRAINT appointments_staff_no_overlap
			EXCLUDE USING gist (
				staff_id WITH =,
				tstzrange(start_time, end_time, '[)') WITH &&
			) WHERE (status IN ('pending_payment', 'confirmed'));
	END IF;
END$$`,
	`DO $$
BEGIN
	IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'services_duration_positive') THEN
		ALTER TABLE services ADD CONSTRAINT services_duration_positive CHECK (duration_minutes > 0);
	END IF;
END$$`,
}
