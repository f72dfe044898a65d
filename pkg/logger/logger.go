package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

// Leveled process-wide logger. Init sets the level; Setup additionally mirrors
// output into a log file.

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var (
	mu     sync.RWMutex
	logger *log.Logger = log.New(os.Stdout, "", 0)
	level  Level       = LevelInfo
	exit               = os.Exit
)

// Init sets the global log level (case-insensitive: debug, info, warn, error, fatal).
// Unknown values fall back to info.
func Init(l string) {
	lvl := ParseLevel(l)
	mu.Lock()
	level = lvl
	mu.Unlock()
}

// Setup sets the level and, when path is non-empty, appends every line to that
// file as well as stdout. The returned closer releases the file.
func Setup(l, path string) (io.Closer, error) {
	Init(l)
	if path == "" {
		return io.NopCloser(nil), nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	SetOutput(io.MultiWriter(os.Stdout, f))
	return f, nil
}

// SetOutput redirects log output.
func SetOutput(w io.Writer) {
	mu.Lock()
	logger = log.New(w, "", 0)
	mu.Unlock()
}

// ParseLevel maps a level name to a Level.
func ParseLevel(l string) Level {
	switch strings.ToLower(strings.TrimSpace(l)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	case "fatal":
		return LevelFatal
	default:
		return LevelInfo
	}
}

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelFatal:
		return "fatal"
	default:
		return "info"
	}
}

func output(l Level, format string, v ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	if l < level {
		return
	}
	hdr := fmt.Sprintf("%s [%s] ", time.Now().Format(time.RFC3339), strings.ToUpper(l.String()))
	logger.Printf(hdr+format, v...)
}

func Debugf(format string, v ...interface{}) { output(LevelDebug, format, v...) }
func Infof(format string, v ...interface{})  { output(LevelInfo, format, v...) }
func Warnf(format string, v ...interface{})  { output(LevelWarn, format, v...) }
func Errorf(format string, v ...interface{}) { output(LevelError, format, v...) }

// Fatalf logs regardless of level and terminates the process.
func Fatalf(format string, v ...interface{}) {
	mu.RLock()
	hdr := fmt.Sprintf("%s [FATAL] ", time.Now().Format(time.RFC3339))
	logger.Printf(hdr+format, v...)
	mu.RUnlock()
	exit(1)
}

func Debug(v string) { Debugf("%s", v) }
func Info(v string)  { Infof("%s", v) }
func Warn(v string)  { Warnf("%s", v) }
func Error(v string) { Errorf("%s", v) }

// LevelString returns the current level as text.
func LevelString() string {
	mu.RLock()
	defer mu.RUnlock()
	return level.String()
}
