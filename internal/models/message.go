package models

import (
	"time"

	"github.com/google/uuid"
)

// Message rows are immutable after creation except for IsRead, which
// only ever flips false to true. A conversation is the derived set of
// messages between two users about one listing; it has no row of its
// own.
type Message struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SenderID   uuid.UUID `gorm:"type:uuid;not null;index" json:"sender_id"`
	ReceiverID uuid.UUID `gorm:"type:uuid;not null;index" json:"receiver_id"`
	ListingID  uint64    `gorm:"not null;index" json:"listing_id"`
	Content    string    `gorm:"size:1000;not null" json:"content"`
	IsRead     bool      `gorm:"not null;default:false" json:"is_read"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
	Sender     User      `gorm:"foreignKey:SenderID" json:"-"`
	Receiver   User      `gorm:"foreignKey:ReceiverID" json:"-"`
	Listing    Listing   `gorm:"foreignKey:ListingID" json:"-"`
}
