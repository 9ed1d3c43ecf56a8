package dialog

import (
	"errors"

	"github.com/eaugusto/registry/pkg/logging"
)

var (
	log = logging.GetLogger("dialog")

	// ErrCancelled is returned when the user dismisses a prompt without answering.
	ErrCancelled = errors.New("dialog cancelled")
)

// Level is the severity of a message.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Dialog is a blocking conversation with a single user.
// Prompts return ErrCancelled when the user dismissed them. Any other error means the user is gone.
type Dialog interface {
	// Input asks the user for a line of text.
	Input(title, message string) (string, error)

	// Message shows a message that needs no answer.
	Message(title, message string, level Level)

	// Choose lets the user pick one of the options and returns its index.
	Choose(title, message string, options []string) (int, error)
}
