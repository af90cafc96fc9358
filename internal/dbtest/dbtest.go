// Package dbtest opens throwaway SQLite databases with the production schema.
package dbtest

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/binda/internal/db"
	"github.com/BruksfildServices01/binda/internal/models"
)

// Open returns a migrated in-memory database private to the test.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", uuid.NewString())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
		Logger:  logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	// a single connection serialises writers the way row locks do on Postgres
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Migrate(gdb))
	return gdb
}

// Fixture is the "acme" tenant used across tests: a 30 minute Haircut
// performed by Jane, open 09:00-17:00 Africa/Lagos every day.
type Fixture struct {
	Tenant  models.Tenant
	Service models.Service
	Staff   models.Staff
}

func Seed(t testing.TB, gdb *gorm.DB) Fixture {
	t.Helper()

	f := Fixture{
		Tenant: models.Tenant{
			Name:     "Acme",
			Slug:     "acme",
			Timezone: "Africa/Lagos",
			Currency: "NGN",
			Status:   models.TenantActive,
		},
	}
	require.NoError(t, gdb.Create(&f.Tenant).Error)

	f.Service = models.Service{
		TenantID:        f.Tenant.ID,
		Name:            "Haircut",
		DurationMinutes: 30,
		Price:           decimal.Zero,
		IsActive:        true,
	}
	require.NoError(t, gdb.Create(&f.Service).Error)

	f.Staff = models.Staff{TenantID: f.Tenant.ID, Name: "Jane", IsActive: true}
	require.NoError(t, gdb.Create(&f.Staff).Error)

	require.NoError(t, gdb.Create(&models.ServiceStaff{ServiceID: f.Service.ID, StaffID: f.Staff.ID}).Error)

	for wd := 0; wd < 7; wd++ {
		wd := wd
		require.NoError(t, gdb.Create(&models.StaffWorkingHours{
			StaffID:   f.Staff.ID,
			Weekday:   &wd,
			OpenTime:  "09:00",
			CloseTime: "17:00",
		}).Error)
	}
	return f
}
