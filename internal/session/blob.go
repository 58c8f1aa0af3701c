package session

import (
	"encoding/json"

	"github.com/tphakala/fretboard-go/internal/errors"
	"github.com/tphakala/fretboard-go/internal/logger"
)

// ErrMalformedState is matched by Decode failures
var ErrMalformedState = errors.NewStd("malformed persisted state")

// persistedState is the stored layout of Settings
type persistedState struct {
	ScaleRootName     string            `json:"scaleRootName"`
	ScaleName         string            `json:"scaleName"`
	TuningString      string            `json:"tuningString"`
	FretboardSettings FretboardSettings `json:"fretboardSettings"`
}

// Encode serializes settings for storage
func Encode(s Settings) ([]byte, error) {
	data, err := json.Marshal(persistedState{
		ScaleRootName:     s.Root,
		ScaleName:         s.Scale,
		TuningString:      s.Tuning,
		FretboardSettings: s.FretboardSettings,
	})
	if err != nil {
		return nil, errors.New(err).
			Component("session").
			Category(errors.CategoryPersistedState).
			Build()
	}
	return data, nil
}

// Decode parses and validates stored settings
func Decode(data []byte) (Settings, error) {
	if len(data) == 0 {
		return Settings{}, malformed("empty blob", nil)
	}

	var state persistedState
	if err := json.Unmarshal(data, &state); err != nil {
		return Settings{}, malformed("invalid json", err)
	}

	s := Settings{
		ContextSettings: ContextSettings{
			Root:   state.ScaleRootName,
			Scale:  state.ScaleName,
			Tuning: state.TuningString,
		},
		FretboardSettings: state.FretboardSettings,
	}
	if err := s.Validate(); err != nil {
		return Settings{}, malformed("invalid settings", err)
	}
	return s, nil
}

func malformed(reason string, cause error) error {
	b := errors.Newf("%w: %s", ErrMalformedState, reason)
	if cause != nil {
		b = errors.Newf("%w: %s: %w", ErrMalformedState, reason, cause)
	}
	return b.Component("session").
		Category(errors.CategoryPersistedState).
		Build()
}

// Restore decodes a stored blob, falling back to DefaultSettings when the
// blob is missing or unusable. It never fails.
func Restore(data []byte, log logger.Logger) Settings {
	s, err := Decode(data)
	if err != nil {
		if log != nil {
			log.Warn("stored settings unusable, restoring defaults",
				logger.Error(err),
				logger.Int("blob_bytes", len(data)))
		}
		return DefaultSettings()
	}
	return s
}
