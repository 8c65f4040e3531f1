package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Habit is a micro-action the user wants to repeat. Streak counters are
// derived from the completion log and are only written by the tracker.
type Habit struct {
	ID               uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	UserID           uuid.UUID      `json:"userId" gorm:"type:uuid;index;not null"`
	Title            string         `json:"title" gorm:"not null"`
	Description      *string        `json:"description"`
	Category         string         `json:"category" gorm:"default:general"`
	Duration         string         `json:"duration"`  // display only, e.g. "2 min"
	Frequency        string         `json:"frequency"` // display only, e.g. "daily"
	IsActive         bool           `json:"isActive" gorm:"default:true"`
	CurrentStreak    int            `json:"currentStreak" gorm:"default:0"`
	BestStreak       int            `json:"bestStreak" gorm:"default:0"`
	TotalCompletions int            `json:"totalCompletions" gorm:"default:0"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
	DeletedAt        gorm.DeletedAt `json:"-" gorm:"index"`
	Completions      []HabitCompletion `json:"completions,omitempty" gorm:"foreignKey:HabitID"`
}

func (h *Habit) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}

type CreateHabitRequest struct {
	Title       string  `json:"title" validate:"required"`
	Description *string `json:"description"`
	Category    string  `json:"category"`
	Duration    string  `json:"duration"`
	Frequency   string  `json:"frequency"`
}

type UpdateHabitRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Duration    *string `json:"duration"`
	Frequency   *string `json:"frequency"`
	IsActive    *bool   `json:"isActive"`
}

type CompleteHabitRequest struct {
	Day  string  `json:"day"` // YYYY-MM-DD, defaults to today (UTC)
	Note *string `json:"note"`
}
