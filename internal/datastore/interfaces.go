// Package datastore persists settings profiles and graded answers through GORM
// on SQLite or MySQL.
package datastore

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tphakala/fretboard-go/internal/conf"
	"github.com/tphakala/fretboard-go/internal/errors"
	"github.com/tphakala/fretboard-go/internal/logger"
	"github.com/tphakala/fretboard-go/internal/observability/metrics"
)

// ErrProfileNotFound is matched when a settings profile does not exist
var ErrProfileNotFound = errors.NewStd("settings profile not found")

// Interface abstracts the underlying database implementation
type Interface interface {
	Open() error
	Close() error
	Ping(ctx context.Context) error
	Driver() string
	SetMetrics(r metrics.Recorder)

	SaveSettings(ctx context.Context, profile string, data []byte) error
	LoadSettings(ctx context.Context, profile string) ([]byte, error)
	DeleteSettings(ctx context.Context, profile string) error
	ListProfiles(ctx context.Context) ([]string, error)

	SaveAnswer(ctx context.Context, record *AnswerRecord) error
	AnswerStats(ctx context.Context) ([]AnswerStat, error)
}

// DataStore implements the queries shared by every driver
type DataStore struct {
	DB       *gorm.DB
	Logger   logger.Logger
	recorder metrics.Recorder
}

// New returns the store selected by settings. The store is not opened.
func New(settings *conf.DatabaseSettings, log logger.Logger) (Interface, error) {
	if log == nil {
		log = logger.Global().Module("datastore")
	}
	base := DataStore{Logger: log}

	switch {
	case settings.SQLite.Enabled:
		return &SQLiteStore{DataStore: base, Path: settings.SQLite.Path, SlowThreshold: settings.SlowThreshold}, nil
	case settings.MySQL.Enabled:
		return &MySQLStore{DataStore: base, Settings: settings.MySQL, SlowThreshold: settings.SlowThreshold}, nil
	default:
		return nil, errors.Newf("no database enabled, enable sqlite or mysql").
			Component("datastore").
			Category(errors.CategoryConfiguration).
			Build()
	}
}

// SetMetrics installs an operation recorder
func (ds *DataStore) SetMetrics(r metrics.Recorder) {
	ds.recorder = r
}

// observe records the outcome of one operation
func (ds *DataStore) observe(operation string, start time.Time, err error) {
	if ds.recorder == nil {
		return
	}
	status := metrics.StatusSuccess
	if err != nil {
		status = metrics.StatusError
		category := string(errors.CategoryDatabase)
		var enhanced *errors.EnhancedError
		if errors.As(err, &enhanced) {
			category = enhanced.GetCategory()
		}
		ds.recorder.RecordError(operation, category)
	}
	ds.recorder.RecordOperation(operation, status)
	ds.recorder.RecordDuration(operation, time.Since(start).Seconds())
}

func (ds *DataStore) dbError(err error, operation string) error {
	return errors.New(err).
		Component("datastore").
		Category(errors.CategoryDatabase).
		Context("operation", operation).
		Build()
}

func (ds *DataStore) checkOpen() error {
	if ds.DB == nil {
		return errors.Newf("database connection is not initialized").
			Component("datastore").
			Category(errors.CategoryState).
			Build()
	}
	return nil
}

// Ping checks the database connection
func (ds *DataStore) Ping(ctx context.Context) (err error) {
	defer func(start time.Time) { ds.observe(metrics.OpPing, start, err) }(time.Now())

	if err := ds.checkOpen(); err != nil {
		return err
	}
	sqlDB, err := ds.DB.DB()
	if err != nil {
		return ds.dbError(err, "get-sql-db")
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return ds.dbError(err, "ping")
	}
	return nil
}

// SaveSettings inserts or replaces the blob stored for profile
func (ds *DataStore) SaveSettings(ctx context.Context, profile string, data []byte) (err error) {
	defer func(start time.Time) { ds.observe(metrics.OpSettingsSave, start, err) }(time.Now())

	if err := ds.checkOpen(); err != nil {
		return err
	}
	record := SettingsProfile{Profile: profile, Data: data}
	result := ds.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "profile"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&record)
	if result.Error != nil {
		return ds.dbError(result.Error, "save-settings")
	}

	ds.Logger.Debug("settings saved",
		logger.String("profile", profile),
		logger.Int("bytes", len(data)))
	return nil
}

// LoadSettings returns the blob stored for profile
func (ds *DataStore) LoadSettings(ctx context.Context, profile string) (data []byte, err error) {
	defer func(start time.Time) { ds.observe(metrics.OpSettingsLoad, start, err) }(time.Now())

	if err := ds.checkOpen(); err != nil {
		return nil, err
	}
	var record SettingsProfile
	if err := ds.DB.WithContext(ctx).Where("profile = ?", profile).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New(ErrProfileNotFound).
				Component("datastore").
				Category(errors.CategoryNotFound).
				Context("profile", profile).
				Build()
		}
		return nil, ds.dbError(err, "load-settings")
	}
	return record.Data, nil
}

// DeleteSettings removes a profile; deleting a missing profile is not an error
func (ds *DataStore) DeleteSettings(ctx context.Context, profile string) (err error) {
	defer func(start time.Time) { ds.observe(metrics.OpSettingsDelete, start, err) }(time.Now())

	if err := ds.checkOpen(); err != nil {
		return err
	}
	if err := ds.DB.WithContext(ctx).Where("profile = ?", profile).Delete(&SettingsProfile{}).Error; err != nil {
		return ds.dbError(err, "delete-settings")
	}
	return nil
}

// ListProfiles returns profile names in alphabetical order
func (ds *DataStore) ListProfiles(ctx context.Context) (profiles []string, err error) {
	defer func(start time.Time) { ds.observe(metrics.OpSettingsList, start, err) }(time.Now())

	if err := ds.checkOpen(); err != nil {
		return nil, err
	}
	if err := ds.DB.WithContext(ctx).Model(&SettingsProfile{}).Order("profile").Pluck("profile", &profiles).Error; err != nil {
		return nil, ds.dbError(err, "list-profiles")
	}

	if dm, ok := ds.recorder.(*metrics.DatastoreMetrics); ok {
		dm.SetProfileCount(len(profiles))
	}
	return profiles, nil
}

// SaveAnswer stores a graded answer
func (ds *DataStore) SaveAnswer(ctx context.Context, record *AnswerRecord) (err error) {
	defer func(start time.Time) { ds.observe(metrics.OpAnswerSave, start, err) }(time.Now())

	if err := ds.checkOpen(); err != nil {
		return err
	}
	if err := ds.DB.WithContext(ctx).Create(record).Error; err != nil {
		return ds.dbError(err, "save-answer")
	}
	return nil
}

// AnswerStats counts answers per exercise kind
func (ds *DataStore) AnswerStats(ctx context.Context) (stats []AnswerStat, err error) {
	defer func(start time.Time) { ds.observe(metrics.OpAnswerStats, start, err) }(time.Now())

	if err := ds.checkOpen(); err != nil {
		return nil, err
	}
	err = ds.DB.WithContext(ctx).Model(&AnswerRecord{}).
		Select("kind, COUNT(*) AS total, SUM(CASE WHEN correct THEN 1 ELSE 0 END) AS correct").
		Group("kind").
		Order("kind").
		Scan(&stats).Error
	if err != nil {
		return nil, ds.dbError(err, "answer-stats")
	}
	return stats, nil
}

// closeDB closes the underlying connection pool
func (ds *DataStore) closeDB() error {
	if err := ds.checkOpen(); err != nil {
		return err
	}
	sqlDB, err := ds.DB.DB()
	if err != nil {
		return ds.dbError(err, "get-sql-db")
	}
	if err := sqlDB.Close(); err != nil {
		return ds.dbError(err, "close")
	}
	return nil
}
