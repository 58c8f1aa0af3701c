// env.go - environment variable configuration and validation
package conf

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/tphakala/fretboard-go/internal/errors"
)

// EnvPrefix is prepended to every environment variable
const EnvPrefix = "FRETBOARD"

// envBinding holds metadata for environment variable bindings (internal use)
type envBinding struct {
	ConfigKey string             // Viper config key
	EnvVar    string             // Environment variable name
	Validate  func(string) error // Optional validation function
}

// getEnvBindings returns all environment variable bindings with validation
func getEnvBindings() []envBinding {
	return []envBinding{
		{"debug", "FRETBOARD_DEBUG", validateEnvBool},
		{"main.profile", "FRETBOARD_PROFILE", nil},

		// Web server
		{"webserver.host", "FRETBOARD_WEBSERVER_HOST", nil},
		{"webserver.port", "FRETBOARD_WEBSERVER_PORT", validateEnvPort},
		{"webserver.ratelimit.rate", "FRETBOARD_WEBSERVER_RATELIMIT_RATE", validateEnvPositiveFloat},

		// Database
		{"database.sqlite.path", "FRETBOARD_DATABASE_SQLITE_PATH", nil},
		{"database.mysql.enabled", "FRETBOARD_DATABASE_MYSQL_ENABLED", validateEnvBool},
		{"database.mysql.host", "FRETBOARD_DATABASE_MYSQL_HOST", nil},
		{"database.mysql.port", "FRETBOARD_DATABASE_MYSQL_PORT", validateEnvPort},
		{"database.mysql.username", "FRETBOARD_DATABASE_MYSQL_USERNAME", nil},
		{"database.mysql.password", "FRETBOARD_DATABASE_MYSQL_PASSWORD", nil},

		// Logging
		{"logging.default_level", "FRETBOARD_LOG_LEVEL", validateEnvLogLevel},

		// Integrations
		{"telemetry.enabled", "FRETBOARD_TELEMETRY_ENABLED", validateEnvBool},
		{"telemetry.dsn", "FRETBOARD_TELEMETRY_DSN", nil},
		{"mqtt.enabled", "FRETBOARD_MQTT_ENABLED", validateEnvBool},
		{"mqtt.broker", "FRETBOARD_MQTT_BROKER", nil},
		{"mqtt.timeout", "FRETBOARD_MQTT_TIMEOUT", validateEnvDuration},
	}
}

// bindEnvVars sets up environment variable bindings with validation (internal)
func bindEnvVars(v *viper.Viper) error {
	var warnings []string

	for _, binding := range getEnvBindings() {
		if err := v.BindEnv(binding.ConfigKey, binding.EnvVar); err != nil {
			warnings = append(warnings, fmt.Sprintf("failed to bind %s: %v", binding.EnvVar, err))
			continue
		}

		if binding.Validate == nil {
			continue
		}
		if envValue := os.Getenv(binding.EnvVar); envValue != "" {
			if err := binding.Validate(envValue); err != nil {
				warnings = append(warnings, fmt.Sprintf("invalid %s value '%s': %v", binding.EnvVar, envValue, err))
			}
		}
	}

	if len(warnings) > 0 {
		return errors.Newf("environment variable issues:\n  - %s", strings.Join(warnings, "\n  - ")).
			Component("configuration").
			Category(errors.CategoryConfiguration).
			Build()
	}
	return nil
}

func validateEnvBool(value string) error {
	if _, err := strconv.ParseBool(value); err != nil {
		return fmt.Errorf("must be true or false")
	}
	return nil
}

func validateEnvPort(value string) error {
	port, err := strconv.Atoi(value)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("must be a port number between 1 and 65535")
	}
	return nil
}

func validateEnvPositiveFloat(value string) error {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || f <= 0 {
		return fmt.Errorf("must be a positive number")
	}
	return nil
}

func validateEnvDuration(value string) error {
	if _, err := time.ParseDuration(value); err != nil {
		return fmt.Errorf("must be a duration such as 10s")
	}
	return nil
}

func validateEnvLogLevel(value string) error {
	switch strings.ToLower(value) {
	case "trace", "debug", "info", "warn", "warning", "error":
		return nil
	}
	return fmt.Errorf("must be one of trace, debug, info, warn, error")
}

// configureEnvironmentVariables sets up environment variable support for Viper
func configureEnvironmentVariables(v *viper.Viper) error {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return bindEnvVars(v)
}
