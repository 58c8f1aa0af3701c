package errors

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/getsentry/sentry-go"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TelemetryReporter receives errors built while reporting is active
type TelemetryReporter interface {
	ReportError(err *EnhancedError)
	IsEnabled() bool
}

var (
	telemetryReporter  TelemetryReporter
	telemetryMu        sync.RWMutex
	hasActiveReporting atomic.Bool
)

// SetTelemetryReporter installs the global reporter. Passing nil disables reporting.
func SetTelemetryReporter(reporter TelemetryReporter) {
	telemetryMu.Lock()
	defer telemetryMu.Unlock()
	telemetryReporter = reporter
	hasActiveReporting.Store(reporter != nil && reporter.IsEnabled())
}

// GetTelemetryReporter returns the current reporter, or nil
func GetTelemetryReporter() TelemetryReporter {
	telemetryMu.RLock()
	defer telemetryMu.RUnlock()
	return telemetryReporter
}

func reportToTelemetry(ee *EnhancedError) {
	telemetryMu.RLock()
	reporter := telemetryReporter
	telemetryMu.RUnlock()

	if reporter == nil || !reporter.IsEnabled() || ee.IsReported() {
		return
	}
	reporter.ReportError(ee)
	ee.MarkReported()
}

// SentryReporter forwards enhanced errors to Sentry
type SentryReporter struct {
	enabled bool
}

// NewSentryReporter creates a reporter; the Sentry client must already be initialized
func NewSentryReporter(enabled bool) *SentryReporter {
	return &SentryReporter{enabled: enabled}
}

// IsEnabled reports whether events are forwarded
func (sr *SentryReporter) IsEnabled() bool {
	return sr.enabled
}

// ReportError sends the error with its component, category and scrubbed context
func (sr *SentryReporter) ReportError(ee *EnhancedError) {
	if !sr.enabled {
		return
	}

	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("component", ee.GetComponent())
		scope.SetTag("category", string(ee.Category))
		scope.SetLevel(getErrorLevel(ee))

		ctx := make(map[string]any)
		for k, v := range ee.GetContext() {
			if s, ok := v.(string); ok {
				v = basicURLScrub(s)
			}
			ctx[k] = v
		}
		if len(ctx) > 0 {
			scope.SetContext("error_context", ctx)
		}

		scope.SetFingerprint([]string{ee.GetComponent(), string(ee.Category)})

		event := sentry.NewEvent()
		event.Message = generateErrorTitle(ee)
		event.Exception = []sentry.Exception{{
			Type:  generateErrorTitle(ee),
			Value: basicURLScrub(ee.GetMessage()),
		}}
		sentry.CaptureEvent(event)
	})
}

// generateErrorTitle produces "Component: Category Error"
func generateErrorTitle(ee *EnhancedError) string {
	component := cases.Title(language.English).String(ee.GetComponent())
	return fmt.Sprintf("%s: %s Error", component, formatCategoryForTitle(ee.Category))
}

func formatCategoryForTitle(category ErrorCategory) string {
	words := strings.Split(string(category), "-")
	caser := cases.Title(language.English)
	for i, w := range words {
		switch w {
		case "mqtt", "http", "io":
			words[i] = strings.ToUpper(w)
		default:
			words[i] = caser.String(w)
		}
	}
	return strings.Join(words, " ")
}

func getErrorLevel(ee *EnhancedError) sentry.Level {
	switch ee.GetPriority() {
	case PriorityCritical:
		return sentry.LevelFatal
	case PriorityHigh:
		return sentry.LevelError
	case PriorityLow:
		return sentry.LevelInfo
	}

	switch ee.Category {
	case CategoryInvalidIdentifier, CategoryOutOfRange, CategoryValidation, CategoryNotFound:
		return sentry.LevelWarning
	case CategoryDatabase, CategorySystem:
		return sentry.LevelError
	default:
		return sentry.LevelWarning
	}
}

var urlPattern = regexp.MustCompile(`\b(?:https?|tcp|ssl|mqtt)://[^\s]+`)

// basicURLScrub replaces URLs in a message with their scheme only
func basicURLScrub(message string) string {
	return urlPattern.ReplaceAllStringFunc(message, func(u string) string {
		scheme, _, _ := strings.Cut(u, "://")
		return scheme + "://[redacted]"
	})
}
