// Package metrics provides constants used across metric definitions.
package metrics

// Operation type constants used as metric labels.
const (
	// OpSettingsSave represents settings profile writes.
	OpSettingsSave = "settings_save"
	// OpSettingsLoad represents settings profile reads.
	OpSettingsLoad = "settings_load"
	// OpSettingsDelete represents settings profile deletion.
	OpSettingsDelete = "settings_delete"
	// OpSettingsList represents profile listing.
	OpSettingsList = "settings_list"
	// OpAnswerSave represents graded answer writes.
	OpAnswerSave = "answer_save"
	// OpAnswerStats represents answer statistics queries.
	OpAnswerStats = "answer_stats"
	// OpPing represents connectivity checks.
	OpPing = "ping"
	// OpMigrate represents schema migration.
	OpMigrate = "migrate"
)

// Label value constants used for metric labels.
const (
	StatusSuccess = "success"
	StatusError   = "error"

	ResultCorrect   = "correct"
	ResultIncorrect = "incorrect"
)

// Histogram bucket configuration constants.
const (
	// BucketStart100us is the starting bucket for 0.1ms histograms (0.1ms to ~400ms range).
	BucketStart100us = 0.0001
	// BucketStart1ms is the starting bucket for 1ms histograms (1ms to ~4s range).
	BucketStart1ms = 0.001
	// BucketStart64B is the starting bucket for 64 byte histograms.
	BucketStart64B = 64.0

	BucketFactor2 = 2

	BucketCount10 = 10
	BucketCount12 = 12
)
