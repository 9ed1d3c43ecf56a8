package logging

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/eaugusto/registry/pkg/dto"
	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
)

// TimestampFormat keeps microseconds so that the log lines of concurrent dialogs can be ordered.
const TimestampFormat = "2006-01-02T15:04:05.000000Z"

// GracefulSentryShutdown is the time Sentry gets to send pending events before the registry exits.
const GracefulSentryShutdown = 5 * time.Second

var log = &logrus.Logger{
	Out:       os.Stderr,
	Formatter: textFormatter(),
	Hooks:     make(logrus.LevelHooks),
	Level:     logrus.InfoLevel,
}

var newlineRemover = strings.NewReplacer("\r", "", "\n", "")

func textFormatter() logrus.Formatter {
	return &logrus.TextFormatter{
		TimestampFormat: TimestampFormat,
		DisableColors:   true,
		FullTimestamp:   true,
	}
}

// InitializeLogging configures the process logger. It may be called again, e.g. by every command of the CLI.
func InitializeLogging(logLevel string, formatter dto.Formatter) error {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", logLevel, err)
	}
	log.SetLevel(level)

	switch formatter {
	case dto.FormatterJSON:
		log.Formatter = &logrus.JSONFormatter{TimestampFormat: TimestampFormat}
	default:
		log.Formatter = textFormatter()
	}

	registerHook(&ContextHook{})
	registerHook(&SentryHook{})
	log.ExitFunc = func(code int) {
		sentry.Flush(GracefulSentryShutdown)
		os.Exit(code)
	}
	return nil
}

// registerHook adds the hook unless a hook of the same type is already registered.
func registerHook[H logrus.Hook](hook H) {
	for _, registered := range log.Hooks[hook.Levels()[0]] {
		if _, ok := registered.(H); ok {
			return
		}
	}
	log.AddHook(hook)
}

// GetLogger returns the logger of a package. Every entry carries the package name.
func GetLogger(pkg string) *logrus.Entry {
	return log.WithField("package", pkg)
}

// StatusRecorder remembers the status code and the size of a response.
// It can be hijacked, so websocket dialogs pass through the middlewares.
type StatusRecorder struct {
	http.ResponseWriter
	StatusCode int
	Written    int
}

func NewStatusRecorder(w http.ResponseWriter) *StatusRecorder {
	return &StatusRecorder{ResponseWriter: w, StatusCode: http.StatusOK}
}

func (r *StatusRecorder) WriteHeader(code int) {
	r.StatusCode = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *StatusRecorder) Write(data []byte) (int, error) {
	n, err := r.ResponseWriter.Write(data)
	r.Written += n
	if err != nil {
		return n, fmt.Errorf("writing response failed: %w", err)
	}
	return n, nil
}

func (r *StatusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("%T cannot be hijacked", r.ResponseWriter)
	}
	conn, rw, err := hijacker.Hijack()
	if err != nil {
		return conn, nil, fmt.Errorf("hijacking connection failed: %w", err)
	}
	// The websocket library writes the upgrade response to the raw connection.
	r.StatusCode = http.StatusSwitchingProtocols
	return conn, rw, nil
}

// HTTPLoggingMiddleware logs every request of the registry API.
// Server errors are logged as errors, dialog connections once they end, everything else on debug level.
func HTTPLoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now().UTC()
		path := RemoveNewlineSymbol(r.URL.Path)

		recorder := NewStatusRecorder(w)
		next.ServeHTTP(recorder, r)

		entry := log.WithContext(r.Context()).WithFields(logrus.Fields{
			"code":       recorder.StatusCode,
			"method":     r.Method,
			"path":       path,
			"bytes":      recorder.Written,
			"duration":   time.Now().UTC().Sub(start),
			"user_agent": RemoveNewlineSymbol(r.UserAgent()),
		})
		switch {
		case recorder.StatusCode >= http.StatusInternalServerError:
			entry.Error("Failing " + path)
		case recorder.StatusCode == http.StatusSwitchingProtocols:
			entry.Info("Dialog connection ended")
		default:
			entry.Debug()
		}
	})
}

// RemoveNewlineSymbol strips line breaks from user input, e.g. identifiers in request paths,
// so that it cannot forge additional log lines.
func RemoveNewlineSymbol(data string) string {
	return newlineRemover.Replace(data)
}
