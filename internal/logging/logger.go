// Package logging writes categorized log files under <data dir>/logs/.
// Nothing is written unless logging.debug_mode is set in config.yaml.
package logging

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Category names one log file.
type Category string

const (
	CategoryBoot  Category = "boot"  // Startup, config resolution
	CategoryAPI   Category = "api"   // Gemini gateway calls
	CategoryStore Category = "store" // Persisted records
	CategoryState Category = "state" // View transitions and plan edits
	CategoryUI    Category = "ui"    // TUI events
)

// Categories lists every known category.
var Categories = []Category{CategoryBoot, CategoryAPI, CategoryStore, CategoryState, CategoryUI}

// Settings mirrors config.LoggingConfig to avoid an import cycle.
type Settings struct {
	DebugMode  bool
	Level      string
	JSONFormat bool
	Categories map[string]bool
}

// StructuredLogEntry represents a JSON log line.
type StructuredLogEntry struct {
	Timestamp int64                  `json:"ts"`  // Unix milliseconds
	Category  string                 `json:"cat"` // Log category
	Level     string                 `json:"lvl"` // debug/info/warn/error
	Message   string                 `json:"msg"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// Logger writes one category to its own file.
type Logger struct {
	category Category
	logger   *log.Logger
	file     *os.File
}

var (
	loggers   = make(map[Category]*Logger)
	loggersMu sync.RWMutex
	logsDir   string
	settings  Settings
	configMu  sync.RWMutex
	logLevel  int // 0=debug, 1=info, 2=warn, 3=error
)

// Log levels
const (
	LevelDebug = 0
	LevelInfo  = 1
	LevelWarn  = 2
	LevelError = 3
)

// Initialize sets up the logging directory under dataDir.
// Should be called once at startup; it is a silent no-op unless DebugMode is set.
func Initialize(dataDir string, s Settings) error {
	if dataDir == "" {
		return fmt.Errorf("data directory required")
	}

	configMu.Lock()
	settings = s
	logLevel = parseLevel(s.Level)
	configMu.Unlock()

	if !s.DebugMode {
		logsDir = ""
		return nil
	}

	dir := filepath.Join(dataDir, "logs")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}
	logsDir = dir

	Boot("=== nutriplan logging initialized ===")
	Boot("Logs directory: %s", logsDir)
	Boot("Log level: %s", s.Level)
	if len(s.Categories) == 0 {
		Boot("All categories enabled (no category filter)")
	}
	return nil
}

func parseLevel(level string) int {
	switch level {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// IsDebugMode reports whether Initialize enabled file logging.
func IsDebugMode() bool {
	configMu.RLock()
	defer configMu.RUnlock()
	return settings.DebugMode
}

// IsCategoryEnabled returns whether a specific category is enabled
func IsCategoryEnabled(category Category) bool {
	configMu.RLock()
	defer configMu.RUnlock()

	if !settings.DebugMode {
		return false
	}
	if settings.Categories == nil {
		return true
	}
	enabled, exists := settings.Categories[string(category)]
	if !exists {
		return true
	}
	return enabled
}

// Get returns (or creates) a logger for the given category.
// Returns a no-op logger if debug mode is disabled or category is disabled.
func Get(category Category) *Logger {
	if !IsCategoryEnabled(category) || logsDir == "" {
		return &Logger{category: category}
	}

	loggersMu.RLock()
	if l, ok := loggers[category]; ok {
		loggersMu.RUnlock()
		return l
	}
	loggersMu.RUnlock()

	loggersMu.Lock()
	defer loggersMu.Unlock()

	// Another caller may have opened it meanwhile.
	if l, ok := loggers[category]; ok {
		return l
	}

	date := time.Now().Format("2006-01-02")
	logPath := filepath.Join(logsDir, fmt.Sprintf("%s_%s.log", date, category))

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[logging] Warning: could not open log file %s: %v\n", logPath, err)
		return &Logger{category: category}
	}

	l := &Logger{
		category: category,
		file:     file,
		logger:   log.New(file, "", log.Ldate|log.Ltime|log.Lmicroseconds),
	}
	loggers[category] = l
	return l
}

func (l *Logger) write(level string, lvl int, format string, args ...interface{}) {
	if l.logger == nil || logLevel > lvl {
		return
	}
	msg := fmt.Sprintf(format, args...)
	configMu.RLock()
	asJSON := settings.JSONFormat
	configMu.RUnlock()
	if asJSON {
		data, err := json.Marshal(StructuredLogEntry{
			Timestamp: time.Now().UnixMilli(),
			Category:  string(l.category),
			Level:     level,
			Message:   msg,
		})
		if err == nil {
			l.logger.Printf("%s", data)
			return
		}
	}
	l.logger.Printf("[%s] %s", levelTag(level), msg)
}

func levelTag(level string) string {
	switch level {
	case "debug":
		return "DEBUG"
	case "warn":
		return "WARN"
	case "error":
		return "ERROR"
	}
	return "INFO"
}

// Debug logs a debug message (only if level <= debug)
func (l *Logger) Debug(format string, args ...interface{}) {
	l.write("debug", LevelDebug, format, args...)
}

// Info logs an informational message (only if level <= info)
func (l *Logger) Info(format string, args ...interface{}) {
	l.write("info", LevelInfo, format, args...)
}

// Warn logs a warning message (only if level <= warn)
func (l *Logger) Warn(format string, args ...interface{}) {
	l.write("warn", LevelWarn, format, args...)
}

// Error logs an error message (always logged if logger exists)
func (l *Logger) Error(format string, args ...interface{}) {
	l.write("error", LevelError, format, args...)
}

// StructuredLog writes a log entry with custom fields
func (l *Logger) StructuredLog(level string, msg string, fields map[string]interface{}) {
	if l.logger == nil {
		return
	}
	configMu.RLock()
	asJSON := settings.JSONFormat
	configMu.RUnlock()
	if asJSON {
		data, err := json.Marshal(StructuredLogEntry{
			Timestamp: time.Now().UnixMilli(),
			Category:  string(l.category),
			Level:     level,
			Message:   msg,
			Fields:    fields,
		})
		if err == nil {
			l.logger.Printf("%s", data)
			return
		}
	}
	l.logger.Printf("[%s] %s | fields=%v", levelTag(level), msg, fields)
}

// CloseAll flushes and closes every category file.
func CloseAll() {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	for _, l := range loggers {
		if l.file != nil {
			l.file.Close()
		}
	}
	loggers = make(map[Category]*Logger)
}

// =============================================================================
// CONVENIENCE FUNCTIONS - Quick logging without getting a logger first
// These are no-ops if the category is disabled
// =============================================================================

// Boot logs to the boot category
func Boot(format string, args ...interface{}) { Get(CategoryBoot).Info(format, args...) }

// BootWarn logs a warning to the boot category
func BootWarn(format string, args ...interface{}) { Get(CategoryBoot).Warn(format, args...) }

// API logs to the api category
func API(format string, args ...interface{}) { Get(CategoryAPI).Info(format, args...) }

// APIDebug logs debug to the api category
func APIDebug(format string, args ...interface{}) { Get(CategoryAPI).Debug(format, args...) }

// APIError logs an error to the api category
func APIError(format string, args ...interface{}) { Get(CategoryAPI).Error(format, args...) }

// Store logs to the store category
func Store(format string, args ...interface{}) { Get(CategoryStore).Info(format, args...) }

// StoreDebug logs debug to the store category
func StoreDebug(format string, args ...interface{}) { Get(CategoryStore).Debug(format, args...) }

// StoreWarn logs a warning to the store category
func StoreWarn(format string, args ...interface{}) { Get(CategoryStore).Warn(format, args...) }

// StoreError logs an error to the store category
func StoreError(format string, args ...interface{}) { Get(CategoryStore).Error(format, args...) }

// State logs to the state category
func State(format string, args ...interface{}) { Get(CategoryState).Info(format, args...) }

// StateDebug logs debug to the state category
func StateDebug(format string, args ...interface{}) { Get(CategoryState).Debug(format, args...) }

// StateWarn logs a warning to the state category
func StateWarn(format string, args ...interface{}) { Get(CategoryState).Warn(format, args...) }

// UI logs to the ui category
func UI(format string, args ...interface{}) { Get(CategoryUI).Info(format, args...) }

// UIDebug logs debug to the ui category
func UIDebug(format string, args ...interface{}) { Get(CategoryUI).Debug(format, args...) }

// =============================================================================
// TIMING HELPERS - For performance logging
// =============================================================================

// Timer helps measure operation duration
type Timer struct {
	category Category
	op       string
	start    time.Time
}

// StartTimer begins timing an operation
func StartTimer(category Category, operation string) *Timer {
	return &Timer{category: category, op: operation, start: time.Now()}
}

// Stop ends the timer and logs the duration
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	Get(t.category).Debug("%s completed in %v", t.op, elapsed)
	return elapsed
}

// StopWithThreshold logs warning if duration exceeds threshold
func (t *Timer) StopWithThreshold(threshold time.Duration) time.Duration {
	elapsed := time.Since(t.start)
	if elapsed > threshold {
		Get(t.category).Warn("%s took %v (threshold: %v)", t.op, elapsed, threshold)
	} else {
		Get(t.category).Debug("%s completed in %v", t.op, elapsed)
	}
	return elapsed
}
