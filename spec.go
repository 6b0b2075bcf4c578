package taxmap

import (
	"log/slog"
	"os"

	"github.com/signadot/taxmap/config"
	"github.com/signadot/taxmap/metrics"
	"github.com/signadot/taxmap/writer"
)

// Spec holds what FromConfig needs beyond the file settings. Config contains
// the serializable settings loaded from a file.
type Spec struct {
	Config  *config.Config
	Log     *slog.Logger
	Metrics *metrics.Collector
	// Colors, when set, colors text map output.
	Colors *writer.Colors
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slogLevel(),
	}))
}

func slogLevel() slog.Level {
	if os.Getenv("TAXMAP_DEBUG") != "" {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
