// conf/validate.go

package conf

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tphakala/fretboard-go/internal/errors"
	"github.com/tphakala/fretboard-go/internal/exercise"
)

// ValidationError represents a collection of validation errors
type ValidationError struct {
	Errors []string
}

// Error returns a string representation of the validation errors
func (ve ValidationError) Error() string {
	return fmt.Sprintf("validation errors: %s", strings.Join(ve.Errors, "; "))
}

// ValidateSettings validates the entire Settings struct
func ValidateSettings(settings *Settings) error {
	ve := ValidationError{}

	if settings.Main.TimeZone != "" {
		if _, err := time.LoadLocation(settings.Main.TimeZone); err != nil {
			ve.Errors = append(ve.Errors, fmt.Sprintf("main.timezone: %v", err))
		}
	}

	if err := validateWebServerSettings(&settings.WebServer); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}
	if err := validateDatabaseSettings(&settings.Database); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}
	if err := validateExerciseSettings(&settings.Exercise); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}
	if err := validateMQTTSettings(&settings.MQTT); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if settings.Telemetry.Enabled && settings.Telemetry.DSN == "" {
		ve.Errors = append(ve.Errors, "telemetry.dsn is required when telemetry is enabled")
	}
	if settings.Metrics.Enabled && !strings.HasPrefix(settings.Metrics.Path, "/") {
		ve.Errors = append(ve.Errors, "metrics.path must start with /")
	}

	if len(ve.Errors) > 0 {
		return errors.New(ve).
			Component("configuration").
			Category(errors.CategoryValidation).
			Context("error_count", len(ve.Errors)).
			Build()
	}
	return nil
}

func validateWebServerSettings(s *WebServerSettings) error {
	if !s.Enabled {
		return nil
	}
	port, err := strconv.Atoi(s.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("webserver.port %q is not a valid port", s.Port)
	}
	if s.RateLimit.Enabled && (s.RateLimit.Rate <= 0 || s.RateLimit.Burst < 1) {
		return fmt.Errorf("webserver.ratelimit needs a positive rate and burst")
	}
	return nil
}

func validateDatabaseSettings(s *DatabaseSettings) error {
	switch {
	case s.SQLite.Enabled && s.MySQL.Enabled:
		return fmt.Errorf("database: enable either sqlite or mysql, not both")
	case s.SQLite.Enabled && s.SQLite.Path == "":
		return fmt.Errorf("database.sqlite.path is required")
	case s.MySQL.Enabled && (s.MySQL.Host == "" || s.MySQL.Database == ""):
		return fmt.Errorf("database.mysql needs host and database")
	}
	return nil
}

func validateExerciseSettings(s *ExerciseSettings) error {
	for _, kind := range exercise.Kinds() {
		if string(kind) == s.DefaultKind {
			return nil
		}
	}
	return fmt.Errorf("exercise.defaultkind %q is not a known exercise", s.DefaultKind)
}

func validateMQTTSettings(s *MQTTSettings) error {
	if !s.Enabled {
		return nil
	}
	u, err := url.Parse(s.Broker)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("mqtt.broker %q must be a URL such as tcp://host:1883", s.Broker)
	}
	if s.Topic == "" {
		return fmt.Errorf("mqtt.topic is required")
	}
	if s.QoS > 2 {
		return fmt.Errorf("mqtt.qos must be 0, 1 or 2")
	}
	return nil
}
