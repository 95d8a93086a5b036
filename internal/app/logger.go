package app

import (
	"log/slog"
	"os"
)

// NewLogger builds the process-wide slog.Logger. Development runs at debug
// level so request traces show up locally; production stays at info. The
// handler format follows LOG_FORMAT, and every record carries a service
// attribute so aggregated logs from the API and the worker stay separable.
func NewLogger(cfg *Config) *slog.Logger {
	level := slog.LevelDebug
	format := "pretty"
	if cfg != nil {
		format = cfg.LogFormat
		if cfg.IsProduction() {
			level = slog.LevelInfo
		}
	}

	opts := &slog.HandlerOptions{AddSource: true, Level: level}
	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(handler).With(slog.String("service", "meridian"))
}
