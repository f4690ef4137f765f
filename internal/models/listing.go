package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ListingStatusActive = "active"
	ListingStatusSold   = "sold"
	ListingStatusClosed = "closed"
)

// ListingConditions is the closed set of accepted condition values.
var ListingConditions = []string{"new", "like-new", "good", "fair", "poor"}

type Listing struct {
	ID          uint64         `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string         `gorm:"size:100;not null" json:"title"`
	Description string         `gorm:"type:text;not null" json:"description"`
	Price       float64        `gorm:"not null" json:"price"`
	Condition   string         `gorm:"size:20;not null" json:"condition"`
	Location    string         `gorm:"size:255;not null" json:"location"`
	CategoryID  uint64         `gorm:"not null;index" json:"category_id"`
	UserID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Status      string         `gorm:"size:20;not null;default:'active';index" json:"status"`
	Views       int            `gorm:"default:0" json:"views"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	User        User           `gorm:"foreignKey:UserID" json:"-"`
	Category    Category       `gorm:"foreignKey:CategoryID" json:"-"`
	Images      []ListingImage `gorm:"foreignKey:ListingID" json:"-"`
}

// ListingImage keeps the upload order so galleries render the way the
// seller arranged them.
type ListingImage struct {
	ID         uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	ListingID  uint64 `gorm:"not null;index" json:"listing_id"`
	ImageURL   string `gorm:"type:text;not null" json:"image_url"`
	OrderIndex int    `gorm:"not null;default:0" json:"order_index"`
}

func ValidCondition(c string) bool {
	for _, v := range ListingConditions {
		if v == c {
			return true
		}
	}
	return false
}
