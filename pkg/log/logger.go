// Package log builds the process logger and adapts it to other logging interfaces.
package log

import (
	"io"
	stdlog "log"

	"github.com/sirupsen/logrus"
)

// DefaultLevel is used when no level or an invalid level is given
const DefaultLevel = logrus.InfoLevel

// NewLogger creates a text logger writing to out at levelStr.
// An unparseable level falls back to info and logs a warning.
func NewLogger(out io.Writer, levelStr string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "15:04:05.000"})
	log.SetLevel(DefaultLevel)

	if levelStr == "" {
		return log
	}
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		log.Warnf("Invalid log level '%s', using default 'info'. Error: %v", levelStr, err)
		return log
	}
	log.SetLevel(level)
	return log
}

// StdLogAdapter routes a standard library *log.Logger into a logrus entry
type StdLogAdapter struct {
	*stdlog.Logger
	w *io.PipeWriter
}

// NewStdLogAdapter creates an adapter logging every line at level.
// Close must be called to release the pipe.
func NewStdLogAdapter(entry *logrus.Entry, level logrus.Level) *StdLogAdapter {
	w := entry.WriterLevel(level)
	return &StdLogAdapter{
		Logger: stdlog.New(w, "", 0),
		w:      w,
	}
}

// Close releases the underlying pipe
func (a *StdLogAdapter) Close() error {
	return a.w.Close()
}
