package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Quote struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Text      string    `json:"text" gorm:"not null;uniqueIndex"`
	Author    string    `json:"author"`
	Category  string    `json:"category" gorm:"index;default:general"`
	CreatedAt time.Time `json:"createdAt"`
}

func (q *Quote) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}
