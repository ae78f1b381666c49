// Package logging builds the zerolog loggers of the tl command.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config holds logging configuration.
type Config struct {
	Level      string `mapstructure:"level"`
	Console    bool   `mapstructure:"console"`
	File       string `mapstructure:"file"` // empty disables the log file
	MaxSize    int    `mapstructure:"max_size"` // megabytes
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"` // days
}

// DefaultConfig returns a console only configuration at warn level.
func DefaultConfig() Config {
	return Config{
		Level:      "warn",
		Console:    true,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     30,
	}
}

// New creates a logger writing to stderr and, if configured, to a rotated file.
func New(cfg Config) zerolog.Logger {
	return NewWithConsole(cfg, os.Stderr)
}

// NewWithConsole is New with the console output redirected to w.
func NewWithConsole(cfg Config, w io.Writer) zerolog.Logger {
	var writers []io.Writer

	if cfg.Console {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.TimeOnly,
			NoColor:    !isTerminal(w),
		})
	}

	if cfg.File != "" {
		// a log file that cannot be created is skipped, logs still reach the console.
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err == nil {
			writers = append(writers, &lumberjack.Logger{
				Filename:   cfg.File,
				MaxSize:    cfg.MaxSize,
				MaxBackups: cfg.MaxBackups,
				MaxAge:     cfg.MaxAge,
				Compress:   true,
			})
		}
	}

	var writer io.Writer
	switch len(writers) {
	case 0:
		return zerolog.Nop()
	case 1:
		writer = writers[0]
	default:
		writer = zerolog.MultiLevelWriter(writers...)
	}

	return zerolog.New(writer).
		Level(ParseLevel(cfg.Level)).
		With().
		Timestamp().
		Logger()
}

// ParseLevel converts a level name, unknown names give the info level.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "off", "disabled":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}
