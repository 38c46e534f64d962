package logger

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

// New builds a JSON logger tagged with the service name. Unknown levels
// fall back to info.
func New(service, level string, out io.Writer) *logrus.Entry {
	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339Nano,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "ts",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)

	return l.WithField("service", service)
}

// NewFile logs to dir/<service>.log. The terminal UI uses this because
// stdout belongs to the alternate screen. The returned closer releases the
// file.
func NewFile(service, level, dir string) (*logrus.Entry, io.Closer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(filepath.Join(dir, service+".log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, err
	}
	return New(service, level, f), f, nil
}

// Discard returns a logger that drops everything, for tests
func Discard() *logrus.Entry {
	return New("test", "panic", io.Discard)
}

// WithRequestID adds the request id to a log entry
func WithRequestID(entry *logrus.Entry, requestID string) *logrus.Entry {
	if requestID == "" {
		return entry
	}
	return entry.WithField("request_id", requestID)
}
