// Package logger configures the process-wide slog default. All log
// lines are JSON and carry a fixed "app" attribute so entries from
// several deployments can share one aggregation pipeline.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"team-pdca/internal/config"

	"gopkg.in/lumberjack.v2"
)

const appName = "team-pdca"

func Init(cfg config.LogConfig) {
	h := slog.NewJSONHandler(output(cfg), &slog.HandlerOptions{Level: level(cfg.Level)})
	slog.SetDefault(slog.New(h).With("app", appName))
	Info("logging configured", "level", cfg.Level, "file", cfg.File, "console", cfg.Console)
}

// output combines console and rotating-file sinks; with neither
// configured everything falls through to stdout.
func output(cfg config.LogConfig) io.Writer {
	var sinks []io.Writer
	if cfg.Console {
		sinks = append(sinks, os.Stdout)
	}
	if cfg.File != "" {
		sinks = append(sinks, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			LocalTime:  true,
		})
	}
	switch len(sinks) {
	case 0:
		return os.Stdout
	case 1:
		return sinks[0]
	}
	return io.MultiWriter(sinks...)
}

func level(name string) slog.Level {
	var lv slog.Level
	if err := lv.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return slog.LevelInfo
	}
	return lv
}

func Debug(msg string, args ...any) { slog.Debug(msg, args...) }
func Info(msg string, args ...any)  { slog.Info(msg, args...) }
func Warn(msg string, args ...any)  { slog.Warn(msg, args...) }

// Err is the convention for failure lines: the error always lands
// under the "err" key.
func Err(msg string, err error, args ...any) {
	slog.Error(msg, append([]any{"err", err}, args...)...)
}
