package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HabitCompletion records that a habit was completed on one calendar day.
// The composite unique index on (habit_id, day) is what settles concurrent
// completes for the same day: the second insert fails at the store.
type HabitCompletion struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	HabitID     uuid.UUID `json:"habitId" gorm:"type:uuid;not null;uniqueIndex:idx_habit_day"`
	UserID      uuid.UUID `json:"userId" gorm:"type:uuid;index;not null"`
	Day         string    `json:"day" gorm:"size:10;not null;uniqueIndex:idx_habit_day"` // YYYY-MM-DD (UTC)
	Note        *string   `json:"note"`
	CompletedAt time.Time `json:"completedAt"`
}

func (c *HabitCompletion) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CompletedAt.IsZero() {
		c.CompletedAt = time.Now().UTC()
	}
	return nil
}
