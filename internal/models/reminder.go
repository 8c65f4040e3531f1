package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Reminder struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID      `json:"userId" gorm:"type:uuid;index;not null"`
	Title       string         `json:"title" gorm:"not null"`
	Description *string        `json:"description"`
	RemindAt    *time.Time     `json:"remindAt"`
	Location    *string        `json:"location"`
	Recurrence  string         `json:"recurrence" gorm:"default:none"` // none, daily, weekly, monthly
	IsActive    bool           `json:"isActive" gorm:"default:true"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

func (r *Reminder) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// SharedReminder grants a friend read access to one reminder.
type SharedReminder struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	ReminderID uuid.UUID `json:"reminderId" gorm:"type:uuid;not null;uniqueIndex:idx_reminder_recipient"`
	OwnerID    uuid.UUID `json:"ownerId" gorm:"type:uuid;index;not null"`
	UserID     uuid.UUID `json:"userId" gorm:"type:uuid;not null;uniqueIndex:idx_reminder_recipient"` // recipient
	CreatedAt  time.Time `json:"createdAt"`
	Reminder   Reminder  `json:"reminder,omitempty" gorm:"foreignKey:ReminderID"`
	Owner      User      `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
}

func (s *SharedReminder) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

type CreateReminderRequest struct {
	Title       string     `json:"title" validate:"required"`
	Description *string    `json:"description"`
	RemindAt    *time.Time `json:"remindAt"`
	Location    *string    `json:"location"`
	Recurrence  string     `json:"recurrence"`
}

type UpdateReminderRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	RemindAt    *time.Time `json:"remindAt"`
	Location    *string    `json:"location"`
	Recurrence  *string    `json:"recurrence"`
	IsActive    *bool      `json:"isActive"`
}

type ShareReminderRequest struct {
	UserID uuid.UUID `json:"userId" validate:"required"`
}
