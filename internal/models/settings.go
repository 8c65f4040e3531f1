package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Settings holds per-user notification and display preferences. One row per
// user, upserted on write. The timezone affects reminder display only; streak
// day boundaries are always UTC.
type Settings struct {
	ID                   uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID               uuid.UUID `json:"userId" gorm:"type:uuid;uniqueIndex;not null"`
	NotificationsEnabled bool      `json:"notificationsEnabled" gorm:"default:true"`
	DailyReminderTime    string    `json:"dailyReminderTime" gorm:"default:'09:00'"` // HH:MM
	Timezone             string    `json:"timezone" gorm:"default:UTC"`              // IANA name
	Theme                string    `json:"theme" gorm:"default:system"`              // light, dark, system
	QuoteCategory        string    `json:"quoteCategory" gorm:"default:general"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

func (s *Settings) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// DefaultSettings returns the settings served before the user saves any.
func DefaultSettings(userID uuid.UUID) Settings {
	return Settings{
		UserID:               userID,
		NotificationsEnabled: true,
		DailyReminderTime:    "09:00",
		Timezone:             "UTC",
		Theme:                "system",
		QuoteCategory:        "general",
	}
}

type UpdateSettingsRequest struct {
	NotificationsEnabled *bool   `json:"notificationsEnabled"`
	DailyReminderTime    *string `json:"dailyReminderTime"`
	Timezone             *string `json:"timezone"`
	Theme                *string `json:"theme"`
	QuoteCategory        *string `json:"quoteCategory"`
}
