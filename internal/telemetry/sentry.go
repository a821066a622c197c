// Package telemetry wires optional Sentry error reporting. Nothing is sent
// unless telemetry is enabled and a DSN is configured.
package telemetry

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/tphakala/trapstats/internal/conf"
	"github.com/tphakala/trapstats/internal/errors"
	"github.com/tphakala/trapstats/internal/logger"
)

const componentName = "telemetry"

// FlushTimeout bounds how long Flush waits for queued events
const FlushTimeout = 2 * time.Second

func getLog() logger.Logger {
	return logger.Global().Module(componentName)
}

// Init enables Sentry reporting when settings ask for it. It returns false
// when telemetry stays disabled.
func Init(settings conf.TelemetrySettings, version string) (bool, error) {
	return initWithTransport(settings, version, nil)
}

func initWithTransport(settings conf.TelemetrySettings, version string, transport sentry.Transport) (bool, error) {
	if !settings.Enabled || settings.DSN == "" {
		errors.SetTelemetryReporter(nil)
		return false, nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              settings.DSN,
		SampleRate:       1.0,
		Debug:            false,
		AttachStacktrace: false,
		Environment:      "production",
		ServerName:       "", // no hostname leakage
		Release:          fmt.Sprintf("trapstats@%s", version),
		Transport:        transport,
		BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
			return applyPrivacyFilters(event)
		},
	})
	if err != nil {
		return false, errors.Newf("sentry initialization failed: %w", err).
			Component(componentName).
			Category(errors.CategoryConfiguration).
			Build()
	}

	errors.SetTelemetryReporter(errors.NewSentryReporter(true))
	getLog().Info("error telemetry enabled", logger.String("release", version))
	return true, nil
}

// applyPrivacyFilters strips host and user identifying data from an event
func applyPrivacyFilters(event *sentry.Event) *sentry.Event {
	event.User = sentry.User{}
	event.ServerName = ""

	if event.Contexts != nil {
		delete(event.Contexts, "device")
		delete(event.Contexts, "os")
		delete(event.Contexts, "runtime")
	}

	for k := range event.Extra {
		if k != "error_type" && k != "component" {
			delete(event.Extra, k)
		}
	}

	return event
}

// Flush waits for queued events when telemetry is enabled
func Flush() {
	if reporter := errors.GetTelemetryReporter(); reporter == nil || !reporter.IsEnabled() {
		return
	}
	sentry.Flush(FlushTimeout)
}
