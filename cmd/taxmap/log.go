package main

import (
	"io"
	"log/slog"
	"os"
)

func newLog(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	switch {
	case os.Getenv("TAXMAP_DEBUG") != "":
		level = slog.LevelDebug
	case verbose:
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			if a.Key == slog.LevelKey && a.Value.String() == "INFO" {
				return slog.Attr{}
			}
			return a
		},
	}))
}
