// Package cache is the durable local key-value store. It keeps the last
// known catalog snapshot and the favorites set across restarts. Loads and
// saves degrade silently: a corrupt or missing entry means "fall back to the
// bootstrap source", and a failed save never blocks the mutation that
// triggered it.
package cache

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/flokiorg/storehub/db"
	"github.com/flokiorg/storehub/logger"
)

type Store struct {
	db *gorm.DB
}

func NewStore(gormDB *gorm.DB) *Store {
	return &Store{db: gormDB}
}

// Load returns the stored value for key, or nil when the key is absent.
func (s *Store) Load(key string) ([]byte, error) {
	var entry db.CacheEntry
	// Find instead of First to avoid "record not found" logs for a KV store
	result := s.db.Where("key = ?", key).Find(&entry)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to load cache key %s: %w", key, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return []byte(entry.Value), nil
}

// Save upserts the value for key. Errors are logged and swallowed.
func (s *Store) Save(key string, value []byte) {
	entry := db.CacheEntry{
		Key:   key,
		Value: value,
	}
	result := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry)

	if result.Error != nil {
		logger.Logger.Error().Err(result.Error).Str("key", key).Msg("Failed to save cache entry")
	}
}
