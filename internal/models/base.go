package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// newID fills an empty primary key before insert.
func newID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (t *Tenant) BeforeCreate(*gorm.DB) error            { newID(&t.ID); return nil }
func (u *User) BeforeCreate(*gorm.DB) error              { newID(&u.ID); return nil }
func (s *Service) BeforeCreate(*gorm.DB) error           { newID(&s.ID); return nil }
func (s *Staff) BeforeCreate(*gorm.DB) error             { newID(&s.ID); return nil }
func (w *StaffWorkingHours) BeforeCreate(*gorm.DB) error { newID(&w.ID); return nil }
func (l *SlotLock) BeforeCreate(*gorm.DB) error          { newID(&l.ID); return nil }
func (c *Customer) BeforeCreate(*gorm.DB) error          { newID(&c.ID); return nil }
func (a *Appointment) BeforeCreate(*gorm.DB) error       { newID(&a.ID); return nil }
func (a *AuditLog) BeforeCreate(*gorm.DB) error          { newID(&a.ID); return nil }
