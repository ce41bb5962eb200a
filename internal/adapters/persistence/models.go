package persistence

import (
	"time"
)

// StoredItemModel represents the stored_items table: one row per building
// sitting in the player's inventory. The construction snapshot is nested
// inside the item's save record as JSON text; an empty string means the
// building has no active construction attached, which is distinct from a
// snapshot whose remaining time is zero.
type StoredItemModel struct {
	ID           string    `gorm:"column:id;primaryKey;not null"`
	BuildingID   string    `gorm:"column:building_id;not null"`
	StoredAt     time.Time `gorm:"column:stored_at;not null"`
	Construction string    `gorm:"column:construction;type:text"` // JSON snapshot as text, "" = none
	Metadata     string    `gorm:"column:metadata;type:text"`     // JSON as text
}

func (StoredItemModel) TableName() string {
	return "stored_items"
}
