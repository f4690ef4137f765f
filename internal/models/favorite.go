package models

import (
	"time"

	"github.com/google/uuid"
)

// Favorite is a pure set relation; existence is the only state. The
// unique index turns a concurrent double-toggle into a constraint
// violation instead of a duplicate row.
type Favorite struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_favorites_user_listing" json:"user_id"`
	ListingID uint64    `gorm:"not null;uniqueIndex:idx_favorites_user_listing" json:"listing_id"`
	CreatedAt time.Time `json:"created_at"`
}
