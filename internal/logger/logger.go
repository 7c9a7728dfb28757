// Package logger configures the process-wide structured logger: JSON on
// stdout, level from LOG_LEVEL, and a constant service field on every entry
// so shipped logs stay attributable.
package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

const serviceName = "fingerprint"

var Logger *logrus.Logger

func init() {
	Logger = logrus.New()
	Logger.SetOutput(os.Stdout)
	Logger.SetLevel(parseLevel(os.Getenv("LOG_LEVEL")))
	Logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
	})
}

// parseLevel maps a LOG_LEVEL value to a logrus level, defaulting to Info
// for unset or unrecognized values
func parseLevel(raw string) logrus.Level {
	level, err := logrus.ParseLevel(raw)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

func entry() *logrus.Entry {
	return Logger.WithField("service", serviceName)
}

// WithFields creates an entry with the given fields
func WithFields(fields logrus.Fields) *logrus.Entry {
	return entry().WithFields(fields)
}

// WithField creates an entry with a single field
func WithField(key string, value interface{}) *logrus.Entry {
	return entry().WithField(key, value)
}

// WithError creates an entry with an error field
func WithError(err error) *logrus.Entry {
	return entry().WithError(err)
}

// Info logs an info message
func Info(msg string) {
	entry().Info(msg)
}

// Error logs an error message
func Error(msg string) {
	entry().Error(msg)
}

// Debug logs a debug message
func Debug(msg string) {
	entry().Debug(msg)
}

// Warn logs a warning message
func Warn(msg string) {
	entry().Warn(msg)
}
