// Package logging provides the structured, per-pass logger used by
// internal/pipeline: a *logrus.Entry wrapper that timestamps pass
// boundaries and writes each record straight through logrus, as
// either human-readable stderr output or machine-parseable JSON.
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// PassLogger wraps a *logrus.Entry pinned to the currently running
// pass, matching the audit-log wrapper idiom of embedding a
// *logrus.Entry and adding fields rather than re-deriving a logger
// per call site.
type PassLogger struct {
	entry *logrus.Entry
}

// New builds the root logger. jsonOutput selects logrus's JSON
// formatter (for cmd/midc's --json diagnostics flag) over its default
// text formatter.
func New(w io.Writer, jsonOutput bool) *PassLogger {
	l := logrus.New()
	l.SetOutput(w)
	if jsonOutput {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return &PassLogger{entry: logrus.NewEntry(l)}
}

// Default builds a text-formatted logger writing to stderr.
func Default() *PassLogger { return New(os.Stderr, false) }

// ForPass returns a child logger with a "pass" field set, scoping
// every subsequent log call to that pass without the caller having to
// repeat the field.
func (p *PassLogger) ForPass(name string) *PassLogger {
	return &PassLogger{entry: p.entry.WithField("pass", name)}
}

func (p *PassLogger) Start(detail string) {
	p.entry.WithField("detail", detail).Info("pass started")
}

func (p *PassLogger) Done(changed int) {
	p.entry.WithField("changed", changed).Info("pass completed")
}

func (p *PassLogger) Errorf(format string, args ...interface{}) {
	p.entry.Errorf(format, args...)
}

func (p *PassLogger) WithFields(fields logrus.Fields) *logrus.Entry {
	return p.entry.WithFields(fields)
}
