package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/julianstephens/wth/internal/constants"
)

var (
	// Logger is the global logger instance
	Logger *log.Logger
)

// Config holds logger configuration
type Config struct {
	Debug     bool
	ConfigDir string
	Level     string    // "debug", "info", "warn" or "error"; empty means warn, or debug with Debug set
	Output    io.Writer // replaces the rotating log file when set
}

// Init initializes the global logger with the given configuration
func Init(cfg Config) error {
	level := log.WarnLevel
	if cfg.Debug {
		level = log.DebugLevel
	}
	if cfg.Level != "" {
		parsed, err := log.ParseLevel(cfg.Level)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		level = parsed
	}

	writer := cfg.Output
	if writer == nil {
		logDir := filepath.Join(cfg.ConfigDir, "logs")
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return err
		}

		writer = &lumberjack.Logger{
			Filename:   filepath.Join(logDir, constants.AppName+".log"),
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
	}

	// In debug mode, mirror to stderr
	if cfg.Debug {
		writer = io.MultiWriter(os.Stderr, writer)
	}

	Logger = log.NewWithOptions(writer, log.Options{
		ReportCaller:    cfg.Debug,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          constants.AppName,
	})

	return nil
}

// With returns a child logger carrying keyvals, e.g. With("component", "beastmode").
// Before Init it returns a logger that discards everything.
func With(keyvals ...interface{}) *log.Logger {
	if Logger == nil {
		return log.NewWithOptions(io.Discard, log.Options{})
	}
	return Logger.With(keyvals...)
}

// Debug logs a debug message
func Debug(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

// Info logs an info message
func Info(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

// Warn logs a warning message
func Warn(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

// Error logs an error message
func Error(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}

// Fatal logs a fatal error and exits
func Fatal(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Fatal(msg, keyvals...)
	}
	os.Exit(1)
}
