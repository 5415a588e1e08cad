package log

import (
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"

	"github.com/tuannm151/sweetshop/internal/config"
)

// NewSlogLogger creates a logger from the given configuration and installs it
// as the process default. Records are enriched with correlation and trace ids
// taken from the context.
func NewSlogLogger(cfg config.Log) *slog.Logger {
	var handler slog.Handler

	switch cfg.Format {
	case config.LogFormatText:
		handler = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      cfg.Level,
			AddSource:  cfg.AddSource,
			TimeFormat: time.RFC3339,
			ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
				if a.Value.Kind() == slog.KindAny {
					if _, ok := a.Value.Any().(error); ok {
						return tint.Attr(9, a)
					}
				}
				return a
			},
		})
	default:
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level:     cfg.Level,
			AddSource: cfg.AddSource,
		})
	}

	log := slog.New(newEnrichedHandler(handler))
	slog.SetDefault(log)

	return log
}
