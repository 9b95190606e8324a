// Package logging configures logrus for flipstudy.
//
// Logs go to stderr; stdout belongs to the study prompt.
package logging

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// Setup returns a logger writing to w at the named level. With asJSON the
// entries are JSON objects, otherwise logrus text lines.
func Setup(w io.Writer, level string, asJSON bool) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(lvl)
	if asJSON {
		l.SetFormatter(&logrus.JSONFormatter{
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})
	} else {
		l.SetFormatter(&logrus.TextFormatter{
			DisableColors:    true,
			FullTimestamp:    true,
			QuoteEmptyFields: true,
		})
	}
	return l, nil
}

// ForSession returns an entry that stamps every line with the session ID.
func ForSession(l *logrus.Logger, sessionID string) *logrus.Entry {
	return l.WithField("session_id", sessionID)
}
