package logger

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ekisa-team/ttsform/internal/env"
	"github.com/ekisa-team/ttsform/internal/xfs"
)

const defaultLogFile = "logs/ttsform.log"

type options struct {
	level      *slog.Level
	console    io.Writer
	logFile    string
	logToFile  bool
	maxSizeMB  int
	maxBackups int
	maxAgeDays int
}

// Option configures the logger.
type Option func(*options)

// WithLogToFile enables or disables the rotating file sink.
func WithLogToFile(enabled bool) Option {
	return func(o *options) {
		o.logToFile = enabled
	}
}

// WithLogFile sets the path of the rotating log file.
func WithLogFile(path string) Option {
	return func(o *options) {
		o.logFile = path
	}
}

// WithLevel overrides the level derived from the environment.
func WithLevel(level slog.Level) Option {
	return func(o *options) {
		o.level = &level
	}
}

// WithConsole sets the console writer. Defaults to stderr.
func WithConsole(w io.Writer) Option {
	return func(o *options) {
		o.console = w
	}
}

// WithRotation sets the lumberjack rotation limits.
func WithRotation(maxSizeMB, maxBackups, maxAgeDays int) Option {
	return func(o *options) {
		o.maxSizeMB = maxSizeMB
		o.maxBackups = maxBackups
		o.maxAgeDays = maxAgeDays
	}
}

// New builds a logger for the given environment.
//
// Development logs go to the console through tint at debug level. Production logs are
// JSON at info level. When file logging is enabled, a JSON copy of every record is
// written to a lumberjack-rotated file as well.
func New(environment env.Environment, opts ...Option) *slog.Logger {
	o := &options{
		console:    os.Stderr,
		logFile:    defaultLogFile,
		maxSizeMB:  20,
		maxBackups: 5,
		maxAgeDays: 28,
	}
	for _, opt := range opts {
		opt(o)
	}

	level := slog.LevelDebug
	if environment.IsProduction() {
		level = slog.LevelInfo
	}
	if o.level != nil {
		level = *o.level
	}

	var console slog.Handler
	if environment.IsProduction() {
		console = slog.NewJSONHandler(o.console, &slog.HandlerOptions{Level: level})
	} else {
		console = tint.NewHandler(o.console, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	}

	if !o.logToFile {
		return slog.New(console)
	}

	path := xfs.ExpandTilde(o.logFile)
	if err := xfs.EnsureParentDir(path); err != nil {
		l := slog.New(console)
		l.Warn("File logging disabled", "path", path, "error", err)
		return l
	}

	file := slog.NewJSONHandler(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    o.maxSizeMB,
		MaxBackups: o.maxBackups,
		MaxAge:     o.maxAgeDays,
		Compress:   true,
	}, &slog.HandlerOptions{Level: level})

	return slog.New(fanout{console, file})
}

// fanout sends every record to all handlers.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range f {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}

// Component returns a child logger tagged with the component name.
func Component(base *slog.Logger, name string) *slog.Logger {
	if base == nil {
		base = slog.Default()
	}
	return base.With(slog.String("component", name))
}
