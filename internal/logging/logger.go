// Package logging provides the console's JSON envelope logger and HTTP middleware.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"
)

// Logger represents the minimal logging interface used across the project.
type Logger interface {
	Printf(format string, v ...any)
}

type stdLoggerProvider interface {
	StdLogger() *log.Logger
}

type stdLogger struct {
	base *log.Logger
}

var (
	defaultWriter   io.Writer = os.Stdout
	defaultWriterMu sync.RWMutex
)

// New returns a Logger that writes JSON envelopes to the default writer.
func New() Logger {
	return NewWithWriter(getDefaultWriter())
}

// NewWithWriter builds a Logger writing one JSON envelope per line to w.
func NewWithWriter(w io.Writer) Logger {
	if w == nil {
		w = os.Stdout
	}
	return &stdLogger{base: log.New(w, "", 0)}
}

// SetDefaultWriter overrides the writer used by New().
func SetDefaultWriter(w io.Writer) {
	defaultWriterMu.Lock()
	defer defaultWriterMu.Unlock()
	if w == nil {
		defaultWriter = os.Stdout
		return
	}
	defaultWriter = w
}

func getDefaultWriter() io.Writer {
	defaultWriterMu.RLock()
	defer defaultWriterMu.RUnlock()
	return defaultWriter
}

// AsStdLogger returns the underlying *log.Logger when available so packages
// like net/http can keep using their native logger type.
func AsStdLogger(logger Logger) *log.Logger {
	if logger == nil {
		return nil
	}
	if provider, ok := logger.(stdLoggerProvider); ok {
		return provider.StdLogger()
	}
	return nil
}

func (l *stdLogger) Printf(format string, v ...any) {
	if l == nil || l.base == nil {
		return
	}
	emitLogEvents(l, logEvent{
		Time:     time.Now().UTC().Format(time.RFC3339Nano),
		Message:  fmt.Sprintf(format, v...),
		Category: CategoryGeneral,
	})
}

func (l *stdLogger) StdLogger() *log.Logger {
	if l == nil {
		return nil
	}
	return l.base
}

// ActionEvent describes one dispatched console action.
type ActionEvent struct {
	RequestID string
	Board     string
	Action    string
	Outcome   string
	Message   string
	Duration  time.Duration
}

// LogAction records a dispatched action in the action category.
func LogAction(logger Logger, ev ActionEvent) {
	msg := ev.Message
	if msg == "" {
		msg = fmt.Sprintf("%s %s on %s", ev.Action, ev.Outcome, ev.Board)
	}
	emitLogEvents(logger, logEvent{
		ID:       ev.RequestID,
		Category: CategoryAction,
		Message:  msg,
		Board:    ev.Board,
		Action:   ev.Action,
		Outcome:  ev.Outcome,
		Duration: ev.Duration.Milliseconds(),
	})
}

func emitLogEvents(logger Logger, entries ...logEvent) {
	if len(entries) == 0 || logger == nil {
		return
	}
	for i := range entries {
		if entries[i].Time == "" {
			entries[i].Time = time.Now().UTC().Format(time.RFC3339Nano)
		}
		if entries[i].Category == "" {
			entries[i].Category = CategoryGeneral
		}
		if entries[i].Category == CategoryGeneral && entries[i].Source == "" {
			entries[i].Source = callerLocation(3)
		}
	}
	data, err := json.Marshal(logPayload{LogEvents: entries})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to marshal log entry: %v\n", err)
		return
	}

	defer writeCategoryEntries(entries)

	if provider, ok := logger.(stdLoggerProvider); ok {
		if base := provider.StdLogger(); base != nil {
			base.Print(string(data))
			return
		}
	}
	logger.Printf("%s", data)
}

func callerLocation(skip int) string {
	// logger.Printf -> emitLogEvents -> runtime.Caller
	if _, file, line, ok := runtime.Caller(skip); ok {
		return fmt.Sprintf("%s:%d", filepath.Base(file), line)
	}
	return ""
}
