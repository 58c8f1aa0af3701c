// model.go defines the persisted records
package datastore

import "time"

// SettingsProfile stores one encoded session.Settings blob under a profile name
type SettingsProfile struct {
	ID        uint   `gorm:"primaryKey"`
	Profile   string `gorm:"size:64;not null;uniqueIndex:idx_settings_profile"`
	Data      []byte `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AnswerRecord is one graded exercise answer
type AnswerRecord struct {
	ID        uint   `gorm:"primaryKey"`
	SessionID string `gorm:"size:36;index:idx_answers_session"`
	Kind      string `gorm:"size:32;index:idx_answers_kind"`
	Question  string `gorm:"size:255"`
	Root      string `gorm:"size:8"`
	Scale     string `gorm:"size:64"`
	Tuning    string `gorm:"size:64"`
	Expected  int    // positions in the answer key
	Selected  int    // positions the learner marked
	Correct   bool
	CreatedAt time.Time `gorm:"index:idx_answers_created"`
}

// AnswerStat aggregates answers of one exercise kind
type AnswerStat struct {
	Kind    string `json:"kind"`
	Total   int64  `json:"total"`
	Correct int64  `json:"correct"`
}

// Accuracy returns Correct/Total, 0 when nothing was answered
func (s AnswerStat) Accuracy() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Total)
}
