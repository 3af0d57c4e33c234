package db

import (
	"time"

	"gorm.io/datatypes"
)

// CacheEntry is a single local cache slot. Two keys are in use: the catalog
// snapshot and the favorites set, each holding a JSON document.
type CacheEntry struct {
	ID        uint
	Key       string `gorm:"unique;not null"`
	Value     datatypes.JSON
	CreatedAt time.Time
	UpdatedAt time.Time
}
