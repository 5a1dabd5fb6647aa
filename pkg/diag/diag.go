// Package diag provides the ordered diagnostic log the pipeline
// reports through. Every notable step and every per-item failure
// appends one human-readable string; the host reads the flat list
// after the solve. Entries are advisory only and never affect control
// flow.
package diag

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Log is an append-only ordered list of diagnostic messages, mirrored
// to a logrus logger as entries are added. The zero value is not
// usable; construct with New.
type Log struct {
	entries []string
	logger  logrus.FieldLogger
}

// New returns a Log mirroring to the standard logrus logger.
func New() *Log {
	return &Log{logger: logrus.StandardLogger()}
}

// NewWithLogger returns a Log mirroring to the given logger.
func NewWithLogger(logger logrus.FieldLogger) *Log {
	return &Log{logger: logger}
}

// Infof records a step message.
func (l *Log) Infof(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	l.entries = append(l.entries, msg)
	l.logger.Info(msg)
}

// Warnf records an advisory problem (skipped item, degenerate input).
func (l *Log) Warnf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	l.entries = append(l.entries, msg)
	l.logger.Warn(msg)
}

// Errorf records a per-item failure. The batch still continues;
// failures surface to the host through this log and through null or
// empty output fields.
func (l *Log) Errorf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	l.entries = append(l.entries, msg)
	l.logger.Error(msg)
}

// Messages returns the entries in append order.
func (l *Log) Messages() []string {
	out := make([]string, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of entries.
func (l *Log) Len() int { return len(l.entries) }
