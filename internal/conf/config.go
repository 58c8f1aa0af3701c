// config.go: settings struct for the fretboard service and the functions to load and save it.
package conf

import (
	"embed"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/tphakala/fretboard-go/internal/errors"
	"github.com/tphakala/fretboard-go/internal/logger"
)

//go:embed config.yaml
var configFiles embed.FS

const configFileName = "config.yaml"

// MainSettings contains identification of this instance.
type MainSettings struct {
	Name     string `yaml:"name" mapstructure:"name"`         // instance name, used in mqtt client ids and health output
	Profile  string `yaml:"profile" mapstructure:"profile"`   // settings profile restored at startup
	TimeZone string `yaml:"timezone" mapstructure:"timezone"` // timezone for displayed timestamps
}

// RateLimitSettings throttles API clients by remote address.
type RateLimitSettings struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Rate      float64       `yaml:"rate" mapstructure:"rate"`           // requests per second
	Burst     int           `yaml:"burst" mapstructure:"burst"`         // requests allowed at once
	ExpiresIn time.Duration `yaml:"expiresin" mapstructure:"expiresin"` // idle visitors are forgotten after this
}

// WebServerSettings contains settings for the HTTP API.
type WebServerSettings struct {
	Enabled      bool              `yaml:"enabled" mapstructure:"enabled"`
	Host         string            `yaml:"host" mapstructure:"host"`
	Port         string            `yaml:"port" mapstructure:"port"`
	ReadTimeout  time.Duration     `yaml:"readtimeout" mapstructure:"readtimeout"`
	WriteTimeout time.Duration     `yaml:"writetimeout" mapstructure:"writetimeout"`
	ViewCacheTTL time.Duration     `yaml:"viewcachettl" mapstructure:"viewcachettl"` // fretboard view cache lifetime
	SessionTTL   time.Duration     `yaml:"sessionttl" mapstructure:"sessionttl"`     // idle exercise sessions expire after this
	RateLimit    RateLimitSettings `yaml:"ratelimit" mapstructure:"ratelimit"`
}

// SQLiteSettings contains settings for the SQLite database.
type SQLiteSettings struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path"`
}

// MySQLSettings contains settings for the MySQL database.
type MySQLSettings struct {
	Enabled  bool   `yaml:"enabled" mapstructure:"enabled"`
	Username string `yaml:"username" mapstructure:"username"`
	Password string `yaml:"password" mapstructure:"password"`
	Database string `yaml:"database" mapstructure:"database"`
	Host     string `yaml:"host" mapstructure:"host"`
	Port     string `yaml:"port" mapstructure:"port"`
}

// DatabaseSettings selects and configures the settings store.
type DatabaseSettings struct {
	Debug         bool           `yaml:"debug" mapstructure:"debug"`
	SlowThreshold time.Duration  `yaml:"slowthreshold" mapstructure:"slowthreshold"`
	SQLite        SQLiteSettings `yaml:"sqlite" mapstructure:"sqlite"`
	MySQL         MySQLSettings  `yaml:"mysql" mapstructure:"mysql"`
}

// ExerciseSettings contains quiz defaults.
type ExerciseSettings struct {
	DefaultKind string `yaml:"defaultkind" mapstructure:"defaultkind"`
	Seed        uint64 `yaml:"seed" mapstructure:"seed"` // 0 seeds randomly
}

// TelemetrySettings controls error reporting to Sentry.
type TelemetrySettings struct {
	Enabled     bool   `yaml:"enabled" mapstructure:"enabled"`
	DSN         string `yaml:"dsn" mapstructure:"dsn"`
	Environment string `yaml:"environment" mapstructure:"environment"`
}

// MQTTSettings contains settings for publishing graded answers.
type MQTTSettings struct {
	Enabled  bool          `yaml:"enabled" mapstructure:"enabled"`
	Debug    bool          `yaml:"debug" mapstructure:"debug"`
	Broker   string        `yaml:"broker" mapstructure:"broker"`
	Topic    string        `yaml:"topic" mapstructure:"topic"`
	Username string        `yaml:"username" mapstructure:"username"`
	Password string        `yaml:"password" mapstructure:"password"`
	Retain   bool          `yaml:"retain" mapstructure:"retain"`
	QoS      byte          `yaml:"qos" mapstructure:"qos"`
	Timeout  time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// MetricsSettings controls the Prometheus endpoint.
type MetricsSettings struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path"`
}

// Settings contains all configuration options.
type Settings struct {
	Debug     bool                 `yaml:"debug" mapstructure:"debug"`
	Main      MainSettings         `yaml:"main" mapstructure:"main"`
	WebServer WebServerSettings    `yaml:"webserver" mapstructure:"webserver"`
	Database  DatabaseSettings     `yaml:"database" mapstructure:"database"`
	Logging   logger.LoggingConfig `yaml:"logging" mapstructure:"logging"`
	Exercise  ExerciseSettings     `yaml:"exercise" mapstructure:"exercise"`
	Telemetry TelemetrySettings    `yaml:"telemetry" mapstructure:"telemetry"`
	MQTT      MQTTSettings         `yaml:"mqtt" mapstructure:"mqtt"`
	Metrics   MetricsSettings      `yaml:"metrics" mapstructure:"metrics"`

	// configPath is the file the settings were read from, empty when none
	configPath string
}

// ConfigPath returns the file the settings were loaded from
func (s *Settings) ConfigPath() string {
	return s.configPath
}

var (
	settingsInstance *Settings
	settingsMutex    sync.RWMutex
)

// Load reads the configuration from the default paths and the environment
// and installs it as the current settings.
func Load() (*Settings, error) {
	paths, err := GetDefaultConfigPaths()
	if err != nil {
		return nil, err
	}
	return LoadFrom(paths...)
}

// LoadFrom reads config.yaml from the first of paths containing one. When
// none does, the embedded default is written to the first path.
func LoadFrom(paths ...string) (*Settings, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, path := range paths {
		v.AddConfigPath(path)
	}

	setDefaultConfig(v)
	if err := configureEnvironmentVariables(v); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.New(err).
				Component("configuration").
				Category(errors.CategoryConfiguration).
				Context("operation", "read-config").
				Build()
		}
		if len(paths) > 0 {
			if err := createDefaultConfig(v, paths[0]); err != nil {
				return nil, err
			}
		}
	}

	settings := &Settings{configPath: v.ConfigFileUsed()}
	if err := v.Unmarshal(settings); err != nil {
		return nil, errors.New(err).
			Component("configuration").
			Category(errors.CategoryConfiguration).
			Context("operation", "unmarshal-config").
			Build()
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, err
	}

	settingsMutex.Lock()
	settingsInstance = settings
	settingsMutex.Unlock()
	return settings, nil
}

// createDefaultConfig writes the embedded config.yaml to dir and reads it back
func createDefaultConfig(v *viper.Viper, dir string) error {
	configPath := filepath.Join(dir, configFileName)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.New(err).
			Component("configuration").
			Category(errors.CategoryFileIO).
			Context("operation", "create-config-dir").
			Build()
	}
	if err := os.WriteFile(configPath, getDefaultConfig(), 0o644); err != nil {
		return errors.New(err).
			Component("configuration").
			Category(errors.CategoryFileIO).
			Context("operation", "write-default-config").
			Build()
	}

	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return errors.New(err).
			Component("configuration").
			Category(errors.CategoryConfiguration).
			Context("operation", "read-default-config").
			Build()
	}
	return nil
}

// getDefaultConfig returns the embedded default configuration
func getDefaultConfig() []byte {
	data, err := fs.ReadFile(configFiles, configFileName)
	if err != nil {
		// embedded at build time
		panic(err)
	}
	return data
}

// GetSettings returns the current settings instance, nil before Load
func GetSettings() *Settings {
	settingsMutex.RLock()
	defer settingsMutex.RUnlock()
	return settingsInstance
}

// SaveYAMLConfig writes settings to configPath. Comments and layout of an
// existing file are not preserved.
func SaveYAMLConfig(configPath string, settings *Settings) error {
	yamlData, err := yaml.Marshal(settings)
	if err != nil {
		return errors.New(err).
			Component("configuration").
			Category(errors.CategoryConfiguration).
			Context("operation", "marshal-config").
			Build()
	}

	// write to a temporary file first so the replace is atomic
	tempFile, err := os.CreateTemp(filepath.Dir(configPath), "config-*.yaml")
	if err != nil {
		return fileError(err, "create-temp-config")
	}
	tempFileName := tempFile.Name()
	defer os.Remove(tempFileName)

	if _, err := tempFile.Write(yamlData); err != nil {
		tempFile.Close()
		return fileError(err, "write-temp-config")
	}
	if err := tempFile.Close(); err != nil {
		return fileError(err, "close-temp-config")
	}

	if err := os.Rename(tempFileName, configPath); err != nil {
		return fileError(err, "replace-config")
	}
	return nil
}

func fileError(err error, operation string) error {
	return errors.New(err).
		Component("configuration").
		Category(errors.CategoryFileIO).
		Context("operation", operation).
		Build()
}
