package logging

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

type AppLogger struct {
	logger *log.Logger
	debug  bool
}

var (
	defaultLogger *AppLogger
	once          sync.Once
	mu            sync.RWMutex
)

// GetDefault returns the default logger instance (singleton-like for convenience)
func GetDefault() *AppLogger {
	once.Do(func() {
		mu.Lock()
		if defaultLogger == nil {
			defaultLogger = NewAppLogger()
		}
		mu.Unlock()
	})
	mu.RLock()
	defer mu.RUnlock()
	return defaultLogger
}

// SetDefault replaces the logger used by the package-level functions.
func SetDefault(al *AppLogger) {
	once.Do(func() {})
	mu.Lock()
	defaultLogger = al
	mu.Unlock()
}

// Package-level convenience functions for quick logging
func Info(msg string, keyvals ...interface{}) {
	GetDefault().Info(msg, keyvals...)
}

func Warn(msg string, keyvals ...interface{}) {
	GetDefault().Warn(msg, keyvals...)
}

func Error(msg string, keyvals ...interface{}) {
	GetDefault().Error(msg, keyvals...)
}

func Debug(msg string, keyvals ...interface{}) {
	GetDefault().Debug(msg, keyvals...)
}

func LogPerformance(operation string, start time.Time) {
	GetDefault().LogPerformance(operation, start)
}

// NewAppLogger returns a stderr logger. Debug output is on when the DEBUG
// environment variable is set.
func NewAppLogger() *AppLogger {
	return NewWriterLogger(os.Stderr, os.Getenv("DEBUG") != "")
}

// NewWriterLogger returns a logger writing to w.
func NewWriterLogger(w io.Writer, debug bool) *AppLogger {
	var logger *log.Logger

	if debug {
		logger = log.NewWithOptions(w, log.Options{
			ReportCaller:    true,
			ReportTimestamp: true,
			TimeFormat:      time.TimeOnly,
			Prefix:          "dwipe",
		})
		logger.SetLevel(log.DebugLevel)
	} else {
		// Only warnings and errors unless asked for more
		logger = log.NewWithOptions(w, log.Options{
			ReportTimestamp: false,
			Prefix:          "dwipe",
		})
		logger.SetLevel(log.WarnLevel)
	}

	return &AppLogger{
		logger: logger,
		debug:  debug,
	}
}

// SetDebug switches debug output on or off.
func (al *AppLogger) SetDebug(debug bool) {
	al.debug = debug
	if debug {
		al.logger.SetLevel(log.DebugLevel)
		return
	}
	al.logger.SetLevel(log.WarnLevel)
}

// IsDebug reports whether debug output is enabled.
func (al *AppLogger) IsDebug() bool {
	return al.debug
}

func (al *AppLogger) Info(msg string, keyvals ...interface{}) {
	al.logger.Info(msg, keyvals...)
}

func (al *AppLogger) Warn(msg string, keyvals ...interface{}) {
	al.logger.Warn(msg, keyvals...)
}

func (al *AppLogger) Error(msg string, keyvals ...interface{}) {
	al.logger.Error(msg, keyvals...)
}

func (al *AppLogger) Debug(msg string, keyvals ...interface{}) {
	if al.debug {
		al.logger.Debug(msg, keyvals...)
	}
}

// Pretty print any object
func (al *AppLogger) DebugObject(name string, obj interface{}) {
	if al.debug {
		al.logger.Debug("Object dump", "name", name, "object", fmt.Sprintf("%+v", obj))
	}
}

// Log performance metrics
func (al *AppLogger) LogPerformance(operation string, start time.Time) {
	if al.debug {
		duration := time.Since(start)
		al.logger.Debug("Performance",
			"operation", operation,
			"duration", duration,
		)
	}
}

// Testing Helper - NewTestLogger creates a logger that writes to a buffer for testing
func NewTestLogger() (*AppLogger, *bytes.Buffer) {
	var buf bytes.Buffer

	logger := log.NewWithOptions(&buf, log.Options{
		ReportTimestamp: false, // Easier to test without timestamps
		ReportCaller:    false,
		Prefix:          "Test",
	})
	logger.SetLevel(log.DebugLevel)

	return &AppLogger{
		logger: logger,
		debug:  true,
	}, &buf
}
