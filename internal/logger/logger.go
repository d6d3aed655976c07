// Package logger provides structured JSON logging and lightweight run
// metrics for rdvwatch.
//
// Log entries are single-line JSON with a timestamp, level, message, and
// optional structured fields. Metrics cover counters (cards kept/skipped)
// and timings (per-source fetch durations); a snapshot of both can be
// logged at the end of a run.
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Level represents log severity.
type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

var levelRank = map[Level]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

// Fields holds structured log fields.
type Fields map[string]interface{}

type entry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Message   string `json:"message"`
	Fields    Fields `json:"fields,omitempty"`
}

// Logger writes structured log entries at or above a minimum level.
type Logger struct {
	mu       sync.Mutex
	minLevel Level
	out      io.Writer
}

// New creates a Logger writing to out; messages below level are discarded.
func New(level Level, out io.Writer) *Logger {
	return &Logger{minLevel: level, out: out}
}

var defaultLogger = New(LevelInfo, os.Stderr)

// SetDefault replaces the package-level logger used by the convenience
// functions.
func SetDefault(l *Logger) {
	defaultLogger = l
}

func (l *Logger) log(level Level, message string, fields Fields) {
	if levelRank[level] < levelRank[l.minLevel] {
		return
	}

	e := entry{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     string(level),
		Message:   message,
		Fields:    fields,
	}

	data, err := json.Marshal(e)
	if err != nil {
		l.mu.Lock()
		fmt.Fprintf(l.out, "[%s] %s: %s (marshal error: %v)\n", e.Timestamp, e.Level, e.Message, err)
		l.mu.Unlock()
		return
	}

	l.mu.Lock()
	fmt.Fprintln(l.out, string(data))
	l.mu.Unlock()
}

// Debug logs a debug message with optional structured fields.
func (l *Logger) Debug(message string, fields Fields) { l.log(LevelDebug, message, fields) }

// Info logs an informational message with optional structured fields.
func (l *Logger) Info(message string, fields Fields) { l.log(LevelInfo, message, fields) }

// Warn logs a warning with optional structured fields.
func (l *Logger) Warn(message string, fields Fields) { l.log(LevelWarn, message, fields) }

// Error logs an error message with optional structured fields.
func (l *Logger) Error(message string, fields Fields) { l.log(LevelError, message, fields) }

// Debug logs through the default logger.
func Debug(message string, fields Fields) { defaultLogger.Debug(message, fields) }

// Info logs through the default logger.
func Info(message string, fields Fields) { defaultLogger.Info(message, fields) }

// Warn logs through the default logger.
func Warn(message string, fields Fields) { defaultLogger.Warn(message, fields) }

// Error logs through the default logger.
func Error(message string, fields Fields) { defaultLogger.Error(message, fields) }

// Metrics tracks counters and timing measurements for a run. Safe for
// concurrent use by the per-source fetch goroutines.
type Metrics struct {
	mu       sync.Mutex
	counters map[string]int64
	timings  map[string][]time.Duration
}

var defaultMetrics = NewMetrics()

// NewMetrics creates an empty metrics tracker.
func NewMetrics() *Metrics {
	return &Metrics{
		counters: make(map[string]int64),
		timings:  make(map[string][]time.Duration),
	}
}

// AddCounter adds n to the named counter.
func (m *Metrics) AddCounter(name string, n int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[name] += n
}

// RecordTiming records one duration measurement under name.
func (m *Metrics) RecordTiming(name string, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timings[name] = append(m.timings[name], d)
}

// Snapshot returns the counters and per-timing totals as loggable fields.
func (m *Metrics) Snapshot() Fields {
	m.mu.Lock()
	defer m.mu.Unlock()

	counters := make(map[string]int64, len(m.counters))
	for k, v := range m.counters {
		counters[k] = v
	}

	timings := make(map[string]string, len(m.timings))
	for name, ds := range m.timings {
		var total time.Duration
		for _, d := range ds {
			total += d
		}
		timings[name] = total.String()
	}

	return Fields{"counters": counters, "timings": timings}
}

// AddCounter adds to a counter on the default metrics tracker.
func AddCounter(name string, n int64) { defaultMetrics.AddCounter(name, n) }

// RecordTiming records a timing on the default metrics tracker.
func RecordTiming(name string, d time.Duration) { defaultMetrics.RecordTiming(name, d) }

// MetricsSnapshot returns the default tracker's counters and timings.
func MetricsSnapshot() Fields { return defaultMetrics.Snapshot() }
