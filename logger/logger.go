package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
	FATAL
)

var levelNames = map[Level]string{
	DEBUG: "DEBUG",
	INFO:  "INFO ",
	WARN:  "WARN ",
	ERROR: "ERROR",
	FATAL: "FATAL",
}

func (l Level) String() string {
	return strings.TrimSpace(levelNames[l])
}

// ParseLevel converts a level name to a Level. Unknown names map to WARN.
func ParseLevel(name string) Level {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DEBUG":
		return DEBUG
	case "INFO":
		return INFO
	case "WARN", "WARNING":
		return WARN
	case "ERROR":
		return ERROR
	case "FATAL":
		return FATAL
	default:
		return WARN
	}
}

type Logger struct {
	mu            sync.RWMutex
	level         Level
	packageLevels map[string]Level
	logger        *log.Logger
}

// Global logger instance
var defaultLogger *Logger

func init() {
	defaultLogger = New(INFO)
}

// New creates a new logger with the specified level
func New(level Level) *Logger {
	return &Logger{
		level:         level,
		packageLevels: map[string]Level{},
		logger:        log.New(os.Stderr, "", log.LstdFlags),
	}
}

// SetLevel sets the global logger level. It may be called while other
// goroutines are logging (config reload).
func SetLevel(level Level) {
	defaultLogger.mu.Lock()
	defaultLogger.level = level
	defaultLogger.mu.Unlock()
}

// GetLevel returns the global logger level.
func GetLevel() Level {
	defaultLogger.mu.RLock()
	defer defaultLogger.mu.RUnlock()
	return defaultLogger.level
}

// SetPackageLevels sets per-component level overrides.
// Keys match the [component] prefix used in log messages (e.g. "status", "session", "api").
func SetPackageLevels(levels map[string]Level) {
	defaultLogger.mu.Lock()
	defaultLogger.packageLevels = levels
	defaultLogger.mu.Unlock()
}

// SetOutput redirects the global logger. The terminal overlay uses it to keep
// log lines off the alternate screen. A nil writer restores stderr.
func SetOutput(w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	defaultLogger.logger.SetOutput(w)
}

// extractComponent returns the component name from a "[component] ..." message, or "".
func extractComponent(msg string) string {
	if len(msg) < 3 || msg[0] != '[' {
		return ""
	}
	end := strings.IndexByte(msg[1:], ']')
	if end < 0 {
		return ""
	}
	return msg[1 : end+1]
}

// shouldLog checks if a message at this level should be logged,
// applying a component-specific override when the message carries a [component] prefix.
func (l *Logger) shouldLog(level Level, msg string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if pkg := extractComponent(msg); pkg != "" {
		if pkgLevel, ok := l.packageLevels[pkg]; ok {
			return level >= pkgLevel
		}
	}
	return level >= l.level
}

// format creates a formatted message with level prefix
func (l *Logger) format(level Level, msg string) string {
	return fmt.Sprintf("[%s] %s", levelNames[level], msg)
}

func (l *Logger) print(level Level, msg string, args []interface{}) {
	if !l.shouldLog(level, msg) {
		return
	}
	l.logger.Println(l.format(level, fmt.Sprintf(msg, args...)))
}

// Debug logs a debug message
func Debug(msg string, args ...interface{}) {
	defaultLogger.print(DEBUG, msg, args)
}

// Info logs an info message
func Info(msg string, args ...interface{}) {
	defaultLogger.print(INFO, msg, args)
}

// Warn logs a warning message
func Warn(msg string, args ...interface{}) {
	defaultLogger.print(WARN, msg, args)
}

// Error logs an error message
func Error(msg string, args ...interface{}) {
	defaultLogger.print(ERROR, msg, args)
}

// Fatal logs a fatal message and exits
func Fatal(msg string, args ...interface{}) {
	formatted := fmt.Sprintf(msg, args...)
	defaultLogger.logger.Fatalln(defaultLogger.format(FATAL, formatted))
}
