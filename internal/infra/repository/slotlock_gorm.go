package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/binda/internal/db"
	domain "github.com/BruksfildServices01/binda/internal/domain/appointment"
	"github.com/BruksfildServices01/binda/internal/models"
)

type SlotLockGormRepository struct {
	db *gorm.DB
}

func NewSlotLockGormRepository(db *gorm.DB) *SlotLockGormRepository {
	return &SlotLockGormRepository{db: db}
}

func (r *SlotLockGormRepository) Acquire(ctx context.Context, lock *models.SlotLock, now time.Time) error {
	now = now.UTC()
	lock.SlotStart = lock.SlotStart.UTC()
	lock.SlotEnd = lock.SlotEnd.UTC()
	lock.ExpiresAt = lock.ExpiresAt.UTC()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockStaff(tx, lock.StaffID); err != nil {
			return err
		}

		// expired holds never block, drop them before looking
		if err := tx.
			Where("staff_id = ? AND expires_at <= ?", lock.StaffID, now).
			Delete(&models.SlotLock{}).Error; err != nil {
			return err
		}

		// re-selecting replaces the session's previous hold on this staff member
		if err := tx.
			Where("staff_id = ? AND session_id = ?", lock.StaffID, lock.SessionID).
			Delete(&models.SlotLock{}).Error; err != nil {
			return err
		}

		var held int64
		if err := tx.Model(&models.SlotLock{}).
			Where(
				"staff_id = ? AND expires_at > ? AND slot_start < ? AND slot_end > ?",
				lock.StaffID, now, lock.SlotEnd, lock.SlotStart,
			).
			Count(&held).Error; err != nil {
			return err
		}
		if held > 0 {
			return domain.ErrSlotUnavailable
		}

		taken, err := hasOccupyingOverlap(tx, lock.StaffID, lock.SlotStart, lock.SlotEnd)
		if err != nil {
			return err
		}
		if taken {
			return domain.ErrSlotUnavailable
		}

		lock.CreatedAt = now
		return tx.Create(lock).Error
	})
}

func (r *SlotLockGormRepository) Release(ctx context.Context, lockID uuid.UUID, sessionID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND session_id = ?", lockID, sessionID).
		Delete(&models.SlotLock{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *SlotLockGormRepository) GetActive(ctx context.Context, tenantID, lockID uuid.UUID, sessionID string, now time.Time) (*models.SlotLock, error) {
	var lock models.SlotLock
	if err := r.db.WithContext(ctx).
		Where(
			"id = ? AND tenant_id = ? AND session_id = ? AND expires_at > ?",
			lockID, tenantID, sessionID, now.UTC(),
		).
		First(&lock).Error; err != nil {
		return nil, notFound(err, domain.ErrLockNotFound)
	}
	return &lock, nil
}

func (r *SlotLockGormRepository) FindOwned(ctx context.Context, lockID uuid.UUID, sessionID string) (*models.SlotLock, error) {
	var lock models.SlotLock
	if err := r.db.WithContext(ctx).
		Where("id = ? AND session_id = ?", lockID, sessionID).
		First(&lock).Error; err != nil {
		return nil, notFound(err, domain.ErrLockNotFound)
	}
	return &lock, nil
}

func (r *SlotLockGormRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at <= ?", now.UTC()).
		Delete(&models.SlotLock{})
	return res.RowsAffected, res.Error
}

// lockStaff serialises writers for one staff member until the transaction
// ends. Only Postgres has advisory locks; elsewhere the caller's mutex and
// the database's own write serialisation apply.
func lockStaff(tx *gorm.DB, staffID uuid.UUID) error {
	if !db.IsPostgres(tx) {
		return nil
	}
	return tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", staffID.String()).Error
}

func hasOccupyingOverlap(tx *gorm.DB, staffID uuid.UUID, start, end time.Time) (bool, error) {
	var count int64
	if err := tx.Model(&models.Appointment{}).
		Where(
			"staff_id = ? AND status IN ? AND start_time < ? AND end_time > ?",
			staffID, domain.OccupyingStatuses(), end.UTC(), start.UTC(),
		).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Compile-time check
var _ domain.LockRepository = (*SlotLockGormRepository)(nil)
