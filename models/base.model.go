package models

import "time"

// Model is embedded by every record. IsDeleted is the tombstone used for soft delete;
// active queries filter on it and restore clears it.
type Model struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	IsDeleted bool       `json:"-" gorm:"default:false;index"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}
