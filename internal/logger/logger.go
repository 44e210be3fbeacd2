package logger

import (
	"io"
	"log/slog"
	"os"

	"github.com/jwebster45206/werewolf-gm/internal/config"
)

// ServiceName is attached to every record written by the logger from Setup.
const ServiceName = "werewolf-gm"

// Setup configures the global slog logger based on environment
func Setup(cfg *config.Config) *slog.Logger {
	return New(os.Stdout, cfg)
}

// New builds the logger Setup installs, writing to w. Production logs are JSON.
func New(w io.Writer, cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}

	var handler slog.Handler
	if cfg.Environment == "production" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(handler.WithAttrs([]slog.Attr{
		slog.String("service", ServiceName),
		slog.String("env", cfg.Environment),
	}))
	slog.SetDefault(logger)
	return logger
}

// WithRequestID tags the logger with the chi request ID, if any.
func WithRequestID(logger *slog.Logger, requestID string) *slog.Logger {
	if requestID == "" {
		return logger
	}
	return logger.With("request_id", requestID)
}

// WithMatchID tags the logger with the match being played.
func WithMatchID(logger *slog.Logger, matchID string) *slog.Logger {
	return logger.With("match_id", matchID)
}

// WithError adds error to logger context
func WithError(logger *slog.Logger, err error) *slog.Logger {
	if err == nil {
		return logger
	}
	return logger.With("error", err.Error())
}
