package buildinfo

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContext(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		ctx       *Context
		version   string
		buildDate string
	}{
		{"nil context", nil, UnknownValue, UnknownValue},
		{"empty values", NewContext("", ""), UnknownValue, UnknownValue},
		{"release", NewContext("1.2.0", "2026-10-01T12:00:00Z"), "1.2.0", "2026-10-01T12:00:00Z"},
		{"pre-release", NewContext("1.3.0-beta.1", ""), "1.3.0-beta.1", UnknownValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.version, tt.ctx.Version())
			assert.Equal(t, tt.buildDate, tt.ctx.BuildDate())
		})
	}
}

func TestContextString(t *testing.T) {
	t.Parallel()

	s := NewContext("1.2.0", "2026-10-01").String()
	assert.Contains(t, s, "1.2.0 (built 2026-10-01")
	assert.Contains(t, s, runtime.Version())

	var info BuildInfo = NewContext("", "")
	assert.Equal(t, UnknownValue, info.Version())
}
