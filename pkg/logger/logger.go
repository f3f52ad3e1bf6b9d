// Package logger provides the process-wide zerolog logger of the pricing API.
//
// Initialise once at startup with Init, then retrieve anywhere with Get.
// When a file is configured, entries are also written to a size-rotated file.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls logger behaviour at initialisation time.
type Options struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Defaults to "info" when empty or unrecognised.
	Level string
	// Pretty enables human-friendly console output. Use false in production
	// to emit pure JSON.
	Pretty bool
	// Output is the console writer. Defaults to os.Stdout.
	Output io.Writer
	// File, when set, receives a JSON copy of every entry, rotated by size.
	File string
	// Service is attached to every entry.
	Service string
}

const (
	fileMaxSizeMB  = 100
	fileMaxBackups = 7
	fileMaxAgeDays = 30
)

var (
	instance    zerolog.Logger
	once        sync.Once
	initialized bool
	rotator     *lumberjack.Logger
)

// Init initialises the singleton logger. Only the first call has any effect.
func Init(opts Options) zerolog.Logger {
	once.Do(func() {
		zerolog.TimeFieldFormat = time.RFC3339Nano

		var out io.Writer = opts.Output
		if out == nil {
			out = os.Stdout
		}
		if opts.Pretty {
			out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
		}
		if opts.File != "" {
			rotator = &lumberjack.Logger{
				Filename:   opts.File,
				MaxSize:    fileMaxSizeMB,
				MaxBackups: fileMaxBackups,
				MaxAge:     fileMaxAgeDays,
				Compress:   true,
			}
			out = zerolog.MultiLevelWriter(out, rotator)
		}

		lvl := parseLevel(opts.Level)
		zerolog.SetGlobalLevel(lvl)

		ctx := zerolog.New(out).Level(lvl).With().Timestamp().Caller()
		if opts.Service != "" {
			ctx = ctx.Str("service", opts.Service)
		}
		instance = ctx.Logger()
		initialized = true
	})
	return instance
}

// Get returns the singleton logger. Panics if Init has not been called yet.
func Get() zerolog.Logger {
	if !initialized {
		panic("logger: Get() called before Init()")
	}
	return instance
}

// Close flushes and closes the log file, if any.
func Close() error {
	if rotator == nil {
		return nil
	}
	return rotator.Close()
}

// Reset tears down the singleton so that the next Init call rebuilds it.
// Intended for use in tests only.
func Reset() {
	_ = Close()
	once = sync.Once{}
	instance = zerolog.Logger{}
	initialized = false
	rotator = nil
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
