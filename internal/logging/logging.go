// Package logging builds the logrus loggers shared by the container and
// record packages.
package logging

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Discard returns a logger that drops everything. It is the default for every
// package so that library users see no output unless they ask for it.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.Out = io.Discard
	l.Formatter = new(logrus.TextFormatter)
	l.Level = logrus.WarnLevel
	return l
}

// NewDebug returns a text logger writing debug output to w.
func NewDebug(w io.Writer) *logrus.Logger {
	l := logrus.New()
	l.Out = w
	l.Formatter = &logrus.TextFormatter{DisableTimestamp: true}
	l.Level = logrus.DebugLevel
	return l
}
