package app

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/heartmarshall/gematria/internal/config"
)

// NewLogger builds the process logger for command, tags every record with
// the command and build version, and installs it as the slog default.
//
// Format "json" writes JSON lines; anything else writes text with source
// locations. Records go to os.Stderr so stdout stays free for the reports
// printed by the offline tools.
func NewLogger(cfg config.LogConfig, command string) *slog.Logger {
	logger := newLogger(os.Stderr, cfg).With(
		slog.String("cmd", command),
		slog.String("version", BuildVersion()),
	)
	slog.SetDefault(logger)
	return logger
}

func newLogger(w io.Writer, cfg config.LogConfig) *slog.Logger {
	json := strings.EqualFold(cfg.Format, "json")
	opts := &slog.HandlerOptions{
		Level:     parseLevel(cfg.Level),
		AddSource: !json,
	}

	if json {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// parseLevel accepts slog level names with optional offsets ("warn",
// "DEBUG-2"). Unparsable input falls back to info.
func parseLevel(s string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
