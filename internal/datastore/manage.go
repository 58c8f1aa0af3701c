package datastore

import (
	"time"

	"gorm.io/gorm"

	"github.com/tphakala/fretboard-go/internal/logger"
	"github.com/tphakala/fretboard-go/internal/observability/metrics"
)

// performAutoMigration creates or updates the schema
func (ds *DataStore) performAutoMigration(db *gorm.DB, dbType string) (err error) {
	start := time.Now()
	defer func() { ds.observe(metrics.OpMigrate, start, err) }()

	if err := db.AutoMigrate(&SettingsProfile{}, &AnswerRecord{}); err != nil {
		return ds.dbError(err, "auto-migrate")
	}

	ds.Logger.Info("database schema migrated",
		logger.String("db_type", dbType),
		logger.Duration("duration", time.Since(start)))
	return nil
}

// gormConfig routes GORM logging to the store's logger
func (ds *DataStore) gormConfig(slowThreshold time.Duration) *gorm.Config {
	return &gorm.Config{
		Logger: logger.NewGormLoggerAdapter(ds.Logger.Module("gorm"), slowThreshold),
	}
}
