// Package logger builds the structured logger and error reporting helpers.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
)

// New returns a logger writing to stdout. Production uses JSON output.
func New(level, environment string) *logrus.Logger {
	return NewWithOutput(os.Stdout, level, environment)
}

// NewWithOutput is New with an explicit writer.
func NewWithOutput(out io.Writer, level, environment string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)

	if strings.EqualFold(environment, "production") {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	log.SetLevel(parsed)

	return log
}

// CaptureError logs err with fields and forwards it to Sentry. Sentry is a
// no-op when it was never initialised.
func CaptureError(log logrus.FieldLogger, err error, msg string, fields logrus.Fields) {
	log.WithFields(fields).WithError(err).Error(msg)

	sentry.WithScope(func(scope *sentry.Scope) {
		for k, v := range fields {
			if s, ok := v.(string); ok {
				scope.SetTag(k, s)
				continue
			}
			scope.SetExtra(k, v)
		}
		sentry.CaptureException(err)
	})
}
