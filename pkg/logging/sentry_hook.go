package logging

import (
	"context"

	"github.com/eaugusto/registry/pkg/dto"
	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
)

// SentryContextKey is the name of the Sentry context that holds the data of the log entry.
const SentryContextKey = "Registry Details"

// SentryHook is a simple adapter that converts logrus entries into Sentry events.
type SentryHook struct{}

// Fire is triggered on new log entries.
func (hook *SentryHook) Fire(entry *logrus.Entry) error {
	event := sentry.NewEvent()
	event.Timestamp = entry.Time
	event.Level = sentry.Level(entry.Level.String())
	event.Message = entry.Message

	// Add Stack Trace when an error was passed.
	if data, ok := entry.Data["error"]; ok {
		err, ok := data.(error)
		if ok {
			const maxErrorDepth = 10
			event.SetException(err, maxErrorDepth)
			entry.Data["error"] = err.Error()
		}
	}

	var hub *sentry.Hub
	if entry.Context != nil {
		hub = sentry.GetHubFromContext(entry.Context)
	}
	if hub == nil {
		hub = sentry.CurrentHub()
	}

	// The scope is cloned so that the data of this entry does not leak into other events.
	hub = hub.Clone()
	hub.Scope().SetContext(SentryContextKey, entry.Data)
	if sessionID, ok := entry.Data[dto.KeySessionID].(string); ok {
		hub.Scope().SetTag(dto.KeySessionID, sessionID)
	}

	hub.CaptureEvent(event)
	return nil
}

// Levels returns all levels this hook should be registered to.
func (hook *SentryHook) Levels() []logrus.Level {
	return []logrus.Level{
		logrus.PanicLevel,
		logrus.FatalLevel,
		logrus.ErrorLevel,
		logrus.WarnLevel,
	}
}

// StartSpan traces the callback as Sentry span below the transaction of ctx.
func StartSpan(ctx context.Context, op, description string, callback func(context.Context)) {
	span := sentry.StartSpan(ctx, op)
	span.Description = description
	defer span.Finish()
	callback(span.Context())
}
