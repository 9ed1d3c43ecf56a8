package logging

import (
	"github.com/eaugusto/registry/pkg/dto"
	"github.com/sirupsen/logrus"
)

// ContextHook copies the session and entity identifiers of the entry context into the entry data,
// so that all lines written for one dialog can be filtered by its session id.
// Fields that were set explicitly take precedence.
type ContextHook struct{}

func (hook *ContextHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (hook *ContextHook) Fire(entry *logrus.Entry) error {
	if entry.Context == nil {
		return nil
	}
	for _, key := range dto.LoggedContextKeys {
		field := string(key)
		if _, ok := entry.Data[field]; ok {
			continue
		}
		switch value := entry.Context.Value(key).(type) {
		case nil:
		case string:
			// Entity identifiers are typed by users.
			entry.Data[field] = RemoveNewlineSymbol(value)
		default:
			entry.Data[field] = value
		}
	}
	return nil
}
