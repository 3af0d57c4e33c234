package db

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func NewDB(uri string, logDBQueries bool) (*gorm.DB, error) {
	logMode := gormlogger.Default.LogMode(gormlogger.Silent)
	if logDBQueries {
		logMode = gormlogger.Default.LogMode(gormlogger.Info)
	}

	gormDB, err := gorm.Open(sqlite.Open(uri), &gorm.Config{
		Logger: logMode,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", uri, err)
	}

	if err := gormDB.Exec("PRAGMA foreign_keys = ON", nil).Error; err != nil {
		return nil, err
	}
	if err := gormDB.Exec("PRAGMA busy_timeout = 5000", nil).Error; err != nil {
		return nil, err
	}

	if err := Migrate(gormDB); err != nil {
		return nil, err
	}

	return gormDB, nil
}

func Migrate(gormDB *gorm.DB) error {
	return gormDB.AutoMigrate(
		&CacheEntry{},
	)
}
