package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Activity is one entry in a user's own activity feed.
type Activity struct {
	ID         uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	UserID     uuid.UUID      `json:"userId" gorm:"type:uuid;index;not null"`
	ActionType string         `json:"actionType" gorm:"not null"` // habit_completed, habit_uncompleted, friend_accepted, reminder_shared
	TargetID   *uuid.UUID     `json:"targetId" gorm:"type:uuid"`
	Metadata   *string        `json:"metadata"` // JSON string
	CreatedAt  time.Time      `json:"createdAt"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
}

func (a *Activity) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
