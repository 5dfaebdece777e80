// Package logging provides the Logger used by stores and replication channels.
package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is an interface that defines the logging methods used in the ttlmemcache packages.
type Logger interface {
	Info(args ...interface{})
	Infof(format string, args ...interface{})
	Debug(args ...interface{})
	Debugf(format string, args ...interface{})
	Warn(args ...interface{})
	Warnf(format string, args ...interface{})
	Error(args ...interface{})
	Errorf(format string, args ...interface{})
}

// nameField is the logrus field that carries the logger name.
const nameField = "ttlmemcache"

// make sure logrusLogger implements the Logger interface.
var _ Logger = (*logrusLogger)(nil)

type logrusLogger struct {
	entry *logrus.Entry
}

func (l *logrusLogger) Info(args ...interface{}) {
	l.entry.Info(args...)
}

func (l *logrusLogger) Infof(format string, args ...interface{}) {
	l.entry.Infof(format, args...)
}

func (l *logrusLogger) Debug(args ...interface{}) {
	l.entry.Debug(args...)
}

func (l *logrusLogger) Debugf(format string, args ...interface{}) {
	l.entry.Debugf(format, args...)
}

func (l *logrusLogger) Warn(args ...interface{}) {
	l.entry.Warn(args...)
}

func (l *logrusLogger) Warnf(format string, args ...interface{}) {
	l.entry.Warnf(format, args...)
}

func (l *logrusLogger) Error(args ...interface{}) {
	l.entry.Error(args...)
}

func (l *logrusLogger) Errorf(format string, args ...interface{}) {
	l.entry.Errorf(format, args...)
}

// make sure suppressedLogger implements the Logger interface.
var _ Logger = suppressedLogger{}

type suppressedLogger struct{}

func (suppressedLogger) Info(args ...interface{})                  {}
func (suppressedLogger) Infof(format string, args ...interface{})  {}
func (suppressedLogger) Debug(args ...interface{})                 {}
func (suppressedLogger) Debugf(format string, args ...interface{}) {}
func (suppressedLogger) Warn(args ...interface{})                  {}
func (suppressedLogger) Warnf(format string, args ...interface{})  {}
func (suppressedLogger) Error(args ...interface{})                 {}
func (suppressedLogger) Errorf(format string, args ...interface{}) {}

// Nop returns a logger that discards everything.
// It is the default logger of stores and channels.
func Nop() Logger {
	return suppressedLogger{}
}

// New creates a logger writing text lines to stdout, tagged with name.
// A suppressed logger discards everything; debugLogs enables the debug level.
func New(name string, suppressed, debugLogs bool) Logger {
	if suppressed {
		return Nop()
	}

	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetLevel(logrus.InfoLevel)

	if debugLogs {
		l.SetLevel(logrus.DebugLevel)
	}

	l.SetFormatter(&logrus.TextFormatter{
		DisableColors:   false,
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
		PadLevelText:    true,
	})

	return FromLogrus(l, name)
}

// FromLogrus wraps an existing logrus logger, tagging every line with name.
// Level and output changes made to l later are honored.
func FromLogrus(l *logrus.Logger, name string) Logger {
	return &logrusLogger{
		entry: l.WithField(nameField, name),
	}
}
