package logger

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestGormLoggerAdapterTrace(t *testing.T) {
	t.Parallel()

	query := func() (string, int64) { return "SELECT 1", 1 }

	tests := []struct {
		name      string
		level     LogLevel
		threshold time.Duration
		begin     time.Time
		err       error
		want      string
	}{
		{"normal query at trace", LogLevelTrace, 0, time.Now(), nil, "sql query"},
		{"slow query warns", LogLevelWarn, time.Millisecond, time.Now().Add(-time.Second), nil, "slow query"},
		{"error warns", LogLevelWarn, 0, time.Now(), assert.AnError, "query error"},
		{"record not found is quiet", LogLevelWarn, 0, time.Now(), gorm.ErrRecordNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			adapter := NewGormLoggerAdapter(NewSlogLogger(&buf, tt.level, time.UTC), tt.threshold)
			adapter.Trace(context.Background(), tt.begin, query, tt.err)
			if tt.want == "" {
				assert.Empty(t, buf.String())
				return
			}
			assert.Contains(t, buf.String(), tt.want)
		})
	}
}
