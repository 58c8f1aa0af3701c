// conf/defaults.go default values for settings
package conf

import (
	"time"

	"github.com/spf13/viper"

	"github.com/tphakala/fretboard-go/internal/logger"
)

// Sets default values for the configuration.
func setDefaultConfig(v *viper.Viper) {
	v.SetDefault("debug", false)

	v.SetDefault("main.name", "fretboard")
	v.SetDefault("main.profile", "default")
	v.SetDefault("main.timezone", "Local")

	v.SetDefault("webserver.enabled", true)
	v.SetDefault("webserver.host", "")
	v.SetDefault("webserver.port", "8080")
	v.SetDefault("webserver.readtimeout", 15*time.Second)
	v.SetDefault("webserver.writetimeout", 15*time.Second)
	v.SetDefault("webserver.viewcachettl", 10*time.Minute)
	v.SetDefault("webserver.sessionttl", 30*time.Minute)
	v.SetDefault("webserver.ratelimit.enabled", true)
	v.SetDefault("webserver.ratelimit.rate", 20.0)
	v.SetDefault("webserver.ratelimit.burst", 40)
	v.SetDefault("webserver.ratelimit.expiresin", 3*time.Minute)

	v.SetDefault("database.debug", false)
	v.SetDefault("database.slowthreshold", 200*time.Millisecond)
	v.SetDefault("database.sqlite.enabled", true)
	v.SetDefault("database.sqlite.path", "fretboard.db")
	v.SetDefault("database.mysql.enabled", false)
	v.SetDefault("database.mysql.username", "")
	v.SetDefault("database.mysql.password", "")
	v.SetDefault("database.mysql.database", "fretboard")
	v.SetDefault("database.mysql.host", "localhost")
	v.SetDefault("database.mysql.port", "3306")

	v.SetDefault("logging.default_level", logger.DefaultLogLevel)
	v.SetDefault("logging.timezone", "Local")
	v.SetDefault("logging.console.enabled", logger.DefaultConsoleEnabled)
	v.SetDefault("logging.console.level", logger.DefaultLogLevel)
	v.SetDefault("logging.file_output.enabled", logger.DefaultFileEnabled)
	v.SetDefault("logging.file_output.path", logger.DefaultLogPath)
	v.SetDefault("logging.file_output.level", logger.DefaultLogLevel)

	v.SetDefault("exercise.defaultkind", "mark-note")
	v.SetDefault("exercise.seed", 0)

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.dsn", "")
	v.SetDefault("telemetry.environment", "production")

	v.SetDefault("mqtt.enabled", false)
	v.SetDefault("mqtt.debug", false)
	v.SetDefault("mqtt.broker", "tcp://localhost:1883")
	v.SetDefault("mqtt.topic", "fretboard/answers")
	v.SetDefault("mqtt.username", "")
	v.SetDefault("mqtt.password", "")
	v.SetDefault("mqtt.retain", false)
	v.SetDefault("mqtt.qos", 1)
	v.SetDefault("mqtt.timeout", 10*time.Second)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}
