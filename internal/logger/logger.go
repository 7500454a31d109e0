// Package logger configures the process-wide logrus logger.
package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// L is the global logger instance.
var L = newLogger(logrus.InfoLevel)

func newLogger(level logrus.Level) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetLevel(level)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	return l
}

// Init sets the global log level. Unknown levels fall back to info.
func Init(level string) {
	lvl, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		L.Warnf("invalid LOG_LEVEL %q, defaulting to info", level)
		lvl = logrus.InfoLevel
	}
	L.SetLevel(lvl)
}

// WithFields returns an entry carrying the given fields.
func WithFields(fields logrus.Fields) *logrus.Entry {
	return L.WithFields(fields)
}
