package models

type Category struct {
	ID       uint64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string  `gorm:"size:100;not null" json:"name"`
	Slug     string  `gorm:"size:100;not null;uniqueIndex" json:"slug"`
	Icon     string  `gorm:"size:50" json:"icon"`
	ParentID *uint64 `gorm:"index" json:"parent_id"`
}
