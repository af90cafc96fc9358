package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/binda/internal/db"
	domain "github.com/BruksfildServices01/binda/internal/domain/appointment"
	"github.com/BruksfildServices01/binda/internal/httperr"
	"github.com/BruksfildServices01/binda/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Availability
// --------------------------------------------------

func (r *AppointmentGormRepository) BusyIntervals(ctx context.Context, q domain.BusyQuery) ([]domain.Interval, error) {
	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Select("start_time", "end_time").
		Where(
			"tenant_id = ? AND staff_id = ? AND status IN ? AND start_time < ? AND end_time > ?",
			q.TenantID, q.StaffID, domain.OccupyingStatuses(), q.To.UTC(), q.From.UTC(),
		).
		Find(&apps).Error; err != nil {
		return nil, err
	}

	locks := r.db.WithContext(ctx).
		Select("slot_start", "slot_end").
		Where(
			"tenant_id = ? AND staff_id = ? AND expires_at > ? AND slot_start < ? AND slot_end > ?",
			q.TenantID, q.StaffID, q.Now.UTC(), q.To.UTC(), q.From.UTC(),
		)
	if q.ExcludeSession != "" {
		locks = locks.Where("session_id <> ?", q.ExcludeSession)
	}

	var held []models.SlotLock
	if err := locks.Find(&held).Error; err != nil {
		return nil, err
	}

	busy := make([]domain.Interval, 0, len(apps)+len(held))
	for _, ap := range apps {
		busy = append(busy, domain.Interval{Start: ap.StartTime, End: ap.EndTime})
	}
	for _, l := range held {
		busy = append(busy, domain.Interval{Start: l.SlotStart, End: l.SlotEnd})
	}
	return busy, nil
}

// --------------------------------------------------
// Booking
// --------------------------------------------------

func (r *AppointmentGormRepository) FindByAttempt(ctx context.Context, tenantID uuid.UUID, attemptID string) (*models.Appointment, error) {
	return r.findByAttempt(r.db.WithContext(ctx), tenantID, attemptID)
}

func (r *AppointmentGormRepository) findByAttempt(tx *gorm.DB, tenantID uuid.UUID, attemptID string) (*models.Appointment, error) {
	var ap models.Appointment
	if err := tx.
		Where("tenant_id = ? AND attempt_id = ?", tenantID, attemptID).
		First(&ap).Error; err != nil {
		return nil, notFound(err, domain.ErrNotFound)
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) CreateBooking(ctx context.Context, draft domain.BookingDraft, now time.Time) (*models.Appointment, bool, error) {
	var createdID uuid.UUID
	replayed := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if draft.AttemptID != "" {
			existing, err := r.findByAttempt(tx, draft.TenantID, draft.AttemptID)
			if err == nil {
				if existing.SessionID != draft.SessionID {
					return domain.ErrAttemptConflict
				}
				createdID = existing.ID
				replayed = true
				return nil
			}
			if !errors.Is(err, domain.ErrNotFound) {
				return err
			}
		}

		var lock models.SlotLock
		q := tx
		if db.IsPostgres(tx) {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		if err := q.
			Where(
				"id = ? AND tenant_id = ? AND session_id = ? AND expires_at > ?",
				draft.LockID, draft.TenantID, draft.SessionID, now.UTC(),
			).
			First(&lock).Error; err != nil {
			return notFound(err, domain.ErrLockNotFound)
		}

		if err := lockStaff(tx, lock.StaffID); err != nil {
			return err
		}

		taken, err := hasOccupyingOverlap(tx, lock.StaffID, lock.SlotStart, lock.SlotEnd)
		if err != nil {
			return err
		}
		if taken {
			return domain.ErrSlotUnavailable
		}

		customer, err := getOrCreateCustomer(tx, draft.TenantID, draft.Customer)
		if err != nil {
			return err
		}

		ap := models.Appointment{
			TenantID:   draft.TenantID,
			ServiceID:  lock.ServiceID,
			StaffID:    lock.StaffID,
			CustomerID: customer.ID,
			StartTime:  lock.SlotStart.UTC(),
			EndTime:    lock.SlotEnd.UTC(),
			Status:     string(draft.Status),
			Notes:      draft.Notes,
			SessionID:  draft.SessionID,
		}
		if draft.AttemptID != "" {
			attempt := draft.AttemptID
			ap.AttemptID = &attempt
		}
		if draft.Status == domain.StatusConfirmed {
			confirmed := now.UTC()
			ap.ConfirmedAt = &confirmed
		}

		if err := tx.Omit(clause.Associations).Create(&ap).Error; err != nil {
			if httperr.IsExclusionConflict(err) {
				return domain.ErrSlotUnavailable
			}
			return err
		}

		if err := tx.Delete(&lock).Error; err != nil {
			return err
		}

		createdID = ap.ID
		return nil
	})
	if err != nil {
		// a concurrent request with the same attempt won the unique index
		if draft.AttemptID != "" && httperr.IsUniqueViolation(err) {
			existing, ferr := r.FindByAttempt(ctx, draft.TenantID, draft.AttemptID)
			if ferr != nil {
				return nil, false, err
			}
			if existing.SessionID != draft.SessionID {
				return nil, false, domain.ErrAttemptConflict
			}
			ap, gerr := r.GetAppointment(ctx, draft.TenantID, existing.ID)
			return ap, true, gerr
		}
		return nil, false, err
	}

	ap, err := r.GetAppointment(ctx, draft.TenantID, createdID)
	return ap, replayed, err
}

func getOrCreateCustomer(tx *gorm.DB, tenantID uuid.UUID, in domain.CustomerInput) (*models.Customer, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	phone := strings.TrimSpace(in.Phone)

	var c models.Customer
	var err error
	switch {
	case email != "":
		err = tx.Where("tenant_id = ? AND email = ?", tenantID, email).First(&c).Error
	case phone != "":
		err = tx.Where("tenant_id = ? AND phone = ?", tenantID, phone).First(&c).Error
	default:
		err = gorm.ErrRecordNotFound
	}
	if err == nil {
		return &c, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	c = models.Customer{
		TenantID: tenantID,
		Name:     strings.TrimSpace(in.Name),
		Email:    email,
		Phone:    phone,
	}
	if err := tx.Create(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// --------------------------------------------------
// State change
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointment(ctx context.Context, tenantID, id uuid.UUID) (*models.Appointment, error) {
	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Service").
		Preload("Staff").
		Preload("Customer").
		Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&ap).Error; err != nil {
		return nil, notFound(err, domain.ErrNotFound)
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) UpdateAppointment(ctx context.Context, ap *models.Appointment, from domain.Status) error {
	ap.UpdatedAt = time.Now().UTC()

	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ? AND tenant_id = ? AND status = ?", ap.ID, ap.TenantID, string(from)).
		Updates(map[string]any{
			"status":            ap.Status,
			"notes":             ap.Notes,
			"payment_reference": ap.PaymentReference,
			"checkout_url":      ap.CheckoutURL,
			"confirmed_at":      ap.ConfirmedAt,
			"cancelled_at":      ap.CancelledAt,
			"completed_at":      ap.CompletedAt,
			"updated_at":        ap.UpdatedAt,
		})
	if res.Error != nil {
		if httperr.IsExclusionConflict(res.Error) {
			return domain.ErrSlotUnavailable
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrConcurrentUpdate
	}
	return nil
}

func (r *AppointmentGormRepository) ListStalePending(ctx context.Context, createdBefore time.Time, limit int) ([]models.Appointment, error) {
	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", string(domain.StatusPendingPayment), createdBefore.UTC()).
		Order("created_at ASC").
		Limit(limit).
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

// --------------------------------------------------
// Dashboard
// --------------------------------------------------

func (r *AppointmentGormRepository) ListForPeriod(ctx context.Context, tenantID uuid.UUID, staffID *uuid.UUID, start, end time.Time) ([]models.Appointment, error) {
	q := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Service").
		Preload("Staff").
		Where("tenant_id = ? AND start_time >= ? AND start_time < ?", tenantID, start.UTC(), end.UTC())
	if staffID != nil {
		q = q.Where("staff_id = ?", *staffID)
	}

	var apps []models.Appointment
	if err := q.Order("start_time ASC").Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *AppointmentGormRepository) CountByStatus(ctx context.Context, tenantID uuid.UUID, start, end time.Time) (map[string]int64, error) {
	var rows []struct {
		Status string
		Total  int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Select("status, COUNT(*) AS total").
		Where("tenant_id = ? AND start_time >= ? AND start_time < ?", tenantID, start.UTC(), end.UTC()).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.Total
	}
	return out, nil
}

func (r *AppointmentGormRepository) ListCustomers(ctx context.Context, tenantID uuid.UUID, query string) ([]models.Customer, error) {
	q := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID)

	query = strings.ToLower(strings.TrimSpace(query))
	if query != "" {
		like := "%" + query + "%"
		q = q.Where(
			"LOWER(name) LIKE ? OR phone LIKE ? OR LOWER(email) LIKE ?",
			like, like, like,
		)
	}

	var customers []models.Customer
	if err := q.Order("created_at DESC").Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
