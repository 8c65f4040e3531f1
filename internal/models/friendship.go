package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Friendship statuses
const (
	FriendshipPending  = "pending"
	FriendshipAccepted = "accepted"
	FriendshipBlocked  = "blocked"
)

// Friendship is a single directed row: requester -> addressee. Accepted
// friendships are read from either direction.
type Friendship struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	RequesterID uuid.UUID      `json:"requesterId" gorm:"type:uuid;not null;uniqueIndex:idx_friend_pair"`
	AddresseeID uuid.UUID      `json:"addresseeId" gorm:"type:uuid;not null;uniqueIndex:idx_friend_pair"`
	Status      string         `json:"status" gorm:"not null;default:pending"` // pending, accepted, blocked
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
	Requester   User           `json:"requester,omitempty" gorm:"foreignKey:RequesterID"`
	Addressee   User           `json:"addressee,omitempty" gorm:"foreignKey:AddresseeID"`
}

func (f *Friendship) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

type FriendRequestRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// FriendInfo is one entry in the friend list, flattened for the client.
type FriendInfo struct {
	FriendshipID uuid.UUID     `json:"friendshipId"`
	Status       string        `json:"status"`
	Since        time.Time     `json:"since"`
	User         PublicProfile `json:"user"`
}
