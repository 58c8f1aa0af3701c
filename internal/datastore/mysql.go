package datastore

import (
	"net"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/tphakala/fretboard-go/internal/conf"
	"github.com/tphakala/fretboard-go/internal/errors"
	"github.com/tphakala/fretboard-go/internal/logger"
)

// MySQLStore implements Interface for MySQL
type MySQLStore struct {
	DataStore
	Settings      conf.MySQLSettings
	SlowThreshold time.Duration
}

// dsnConfig builds the driver configuration from settings
func (store *MySQLStore) dsnConfig() *mysqldriver.Config {
	cfg := mysqldriver.NewConfig()
	cfg.User = store.Settings.Username
	cfg.Passwd = store.Settings.Password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(store.Settings.Host, store.Settings.Port)
	cfg.DBName = store.Settings.Database
	cfg.ParseTime = true
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	return cfg
}

// redactedDSN is the DSN with the password masked, for logs
func (store *MySQLStore) redactedDSN() string {
	cfg := store.dsnConfig()
	if cfg.Passwd != "" {
		cfg.Passwd = "***"
	}
	return cfg.FormatDSN()
}

// Open connects to the server and migrates the schema
func (store *MySQLStore) Open() error {
	if store.Settings.Host == "" || store.Settings.Database == "" {
		return errors.Newf("mysql host and database are required").
			Component("datastore").
			Category(errors.CategoryConfiguration).
			Build()
	}

	db, err := gorm.Open(mysql.Open(store.dsnConfig().FormatDSN()), store.gormConfig(store.SlowThreshold))
	if err != nil {
		store.Logger.Error("failed to open mysql database",
			logger.String("dsn", store.redactedDSN()),
			logger.Error(err))
		return errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("db_type", "mysql").
			Context("host", store.Settings.Host).
			Build()
	}

	store.DB = db
	store.Logger.Info("mysql database opened", logger.String("dsn", store.redactedDSN()))
	return store.performAutoMigration(db, "mysql")
}

// Close closes the connection pool
func (store *MySQLStore) Close() error {
	return store.closeDB()
}

// Driver names the database driver
func (store *MySQLStore) Driver() string {
	return "mysql"
}
