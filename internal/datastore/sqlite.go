package datastore

import (
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tphakala/fretboard-go/internal/errors"
	"github.com/tphakala/fretboard-go/internal/logger"
)

// MemoryPath opens a private in-memory database
const MemoryPath = ":memory:"

// SQLiteStore implements Interface for SQLite
type SQLiteStore struct {
	DataStore
	Path          string
	SlowThreshold time.Duration
}

// Open opens the database file, creating its directory, and migrates the schema
func (store *SQLiteStore) Open() error {
	if store.Path == "" {
		return errors.Newf("sqlite path is empty").
			Component("datastore").
			Category(errors.CategoryConfiguration).
			Build()
	}

	if store.Path != MemoryPath {
		if dir := filepath.Dir(store.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return errors.New(err).
					Component("datastore").
					Category(errors.CategoryFileIO).
					Context("path", dir).
					Build()
			}
		}
	}

	db, err := gorm.Open(sqlite.Open(store.Path), store.gormConfig(store.SlowThreshold))
	if err != nil {
		return errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("db_type", "sqlite").
			Context("path", store.Path).
			Build()
	}

	if store.Path == MemoryPath {
		// every pooled connection would otherwise get its own empty database
		sqlDB, err := db.DB()
		if err != nil {
			return store.dbError(err, "get-sql-db")
		}
		sqlDB.SetMaxOpenConns(1)
	}

	store.DB = db
	store.Logger.Info("sqlite database opened", logger.String("path", store.Path))
	return store.performAutoMigration(db, "sqlite")
}

// Close closes the database
func (store *SQLiteStore) Close() error {
	return store.closeDB()
}

// Driver names the database driver
func (store *SQLiteStore) Driver() string {
	return "sqlite"
}
