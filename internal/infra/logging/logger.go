// Package logging provides file-based logging for shopdesk.
// Every entry goes to the global log (.shopdesk/logs/shopdesk.log); entries
// scoped to an order also go to that order's log (.shopdesk/logs/order-<id>.log).
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/runoshun/shopdesk/internal/domain"
)

// Ensure Logger implements domain.Logger interface.
var _ domain.Logger = (*Logger)(nil)

// Logger writes leveled entries to the global and per-order log files.
// Fields are ordered to minimize memory padding.
type Logger struct {
	now     func() time.Time
	mirror  io.Writer // Optional extra destination, e.g. stderr while serving
	files   map[string]*os.File
	dataDir string
	mu      sync.Mutex
	level   slog.Level
}

// New creates a new Logger that writes below dataDir/logs.
// If dataDir is empty, logging is disabled.
func New(dataDir string, level slog.Level) *Logger {
	return &Logger{
		now:     time.Now,
		files:   make(map[string]*os.File),
		dataDir: dataDir,
		level:   level,
	}
}

// SetMirror copies every written entry to w as well. Pass nil to stop.
func (l *Logger) SetMirror(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.mirror = w
}

// ParseLevel parses a log level string into slog.Level.
// Unknown values fall back to info.
func ParseLevel(levelStr string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(levelStr)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// file opens path for appending or returns the already open handle.
// Callers hold l.mu.
func (l *Logger) file(path string) (*os.File, error) {
	if f, ok := l.files[path]; ok {
		return f, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create logs directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640) //nolint:gosec // Log file readable by owner and group
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	l.files[path] = f
	return f, nil
}

// Close closes all open log files.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var lastErr error
	for path, f := range l.files {
		if err := f.Close(); err != nil {
			lastErr = err
		}
		delete(l.files, path)
	}
	return lastErr
}

// formatLog formats a log entry.
// Format: [2026-03-14 09:30:00] [INFO] [order-1f2e] [derive] message
func formatLog(t time.Time, level slog.Level, scope, category, msg string) string {
	scopeStr := "global"
	if scope != "" {
		scopeStr = "order-" + domain.ShortID(scope)
	}
	return fmt.Sprintf("[%s] [%s] [%s] [%s] %s\n",
		t.Format("2006-01-02 15:04:05"),
		strings.ToUpper(level.String()),
		scopeStr,
		category,
		msg,
	)
}

// log writes an entry to the global log and, when scope names an order,
// to that order's log too. Write failures are dropped.
func (l *Logger) log(level slog.Level, scope, category, msg string) {
	if l.dataDir == "" || level < l.level {
		return
	}

	entry := formatLog(l.now(), level, scope, category, msg)

	l.mu.Lock()
	defer l.mu.Unlock()

	paths := []string{domain.GlobalLogPath(l.dataDir)}
	if scope != "" {
		paths = append(paths, domain.OrderLogPath(l.dataDir, scope))
	}
	for _, p := range paths {
		if f, err := l.file(p); err == nil {
			_, _ = io.WriteString(f, entry)
		}
	}
	if l.mirror != nil {
		_, _ = io.WriteString(l.mirror, entry)
	}
}

// Info logs an info message.
func (l *Logger) Info(scope, category, msg string) {
	l.log(slog.LevelInfo, scope, category, msg)
}

// Debug logs a debug message.
func (l *Logger) Debug(scope, category, msg string) {
	l.log(slog.LevelDebug, scope, category, msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(scope, category, msg string) {
	l.log(slog.LevelWarn, scope, category, msg)
}

// Error logs an error message.
func (l *Logger) Error(scope, category, msg string) {
	l.log(slog.LevelError, scope, category, msg)
}
