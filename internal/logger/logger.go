// Package logger builds the process slog.Logger: console output plus an
// optional size-rotated file.
package logger

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// LevelAlways is above Error so it passes every level filter. Used for
// lifecycle lines such as startup and rule reloads.
const LevelAlways = slog.Level(12)

// New builds a logger from cfg. Console output goes to console (os.Stdout
// when nil). The returned closer flushes the rotating file, if any.
func New(cfg Config, console io.Writer) (*slog.Logger, io.Closer) {
	if console == nil {
		console = os.Stdout
	}
	opts := &slog.HandlerOptions{
		Level:       parseLevel(cfg.Level),
		ReplaceAttr: replaceLevel,
	}

	var handlers []slog.Handler
	var closer io.Closer = nopCloser{}
	if cfg.Console() {
		handlers = append(handlers, newHandler(console, cfg.ConsoleFormat, opts))
	}
	if cfg.FileEnabled {
		file := &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.FileMaxSizeMB,
			MaxBackups: cfg.FileMaxBackups,
			MaxAge:     cfg.FileMaxAgeDays,
		}
		closer = file
		handlers = append(handlers, newHandler(file, cfg.FileFormat, opts))
	}

	switch len(handlers) {
	case 0:
		return slog.New(slog.NewTextHandler(console, opts)), closer
	case 1:
		return slog.New(handlers[0]), closer
	default:
		return slog.New(newMultiHandler(handlers...)), closer
	}
}

// Always logs msg at LevelAlways.
func Always(l *slog.Logger, msg string, args ...any) {
	l.Log(context.Background(), LevelAlways, msg, args...)
}

// Discard returns a logger that drops everything; handy in tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 100}))
}

func newHandler(w io.Writer, format string, opts *slog.HandlerOptions) slog.Handler {
	if strings.EqualFold(format, "json") {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

func replaceLevel(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.LevelKey {
		if lv, ok := a.Value.Any().(slog.Level); ok && lv == LevelAlways {
			a.Value = slog.StringValue("ALWAYS")
		}
	}
	return a
}

func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARNING", "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// multiHandler fans a record out to every handler enabled for its level.
type multiHandler struct {
	handlers []slog.Handler
}

func newMultiHandler(handlers ...slog.Handler) *multiHandler {
	return &multiHandler{handlers: handlers}
}

func (h *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, hd := range h.handlers {
		if hd.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, hd := range h.handlers {
		if hd.Enabled(ctx, r.Level) {
			if err := hd.Handle(ctx, r.Clone()); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func (h *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make([]slog.Handler, len(h.handlers))
	for i, hd := range h.handlers {
		out[i] = hd.WithAttrs(attrs)
	}
	return newMultiHandler(out...)
}

func (h *multiHandler) WithGroup(name string) slog.Handler {
	out := make([]slog.Handler, len(h.handlers))
	for i, hd := range h.handlers {
		out[i] = hd.WithGroup(name)
	}
	return newMultiHandler(out...)
}
