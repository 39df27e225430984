package logger

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	domainErrors "github.com/thomas-vilte/agenda-generator/internal/errors"
)

type contextKey struct{}

var loggerKey = contextKey{}

// Initialize installs the default logger. Logs always go to stderr (or w)
// because stdout carries the generated agenda.
func Initialize(w io.Writer, debug, verbose bool) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}

	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	} else if verbose {
		level = slog.LevelInfo
	}

	l := slog.New(NewPrettyHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
	}))
	slog.SetDefault(l)
	return l
}

func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}

func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

func With(ctx context.Context, args ...any) context.Context {
	l := FromContext(ctx).With(args...)
	return WithLogger(ctx, l)
}

func Debug(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).Debug(msg, args...)
}

func Info(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).Info(msg, args...)
}

func Warn(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).Warn(msg, args...)
}

// Error logs err under "error". When err is an AppError, the section and
// endpoint it was raised for are logged as their own attributes.
func Error(ctx context.Context, msg string, err error, args ...any) {
	if err != nil {
		args = append(args, slog.Any("error", err))

		var appErr *domainErrors.AppError
		if errors.As(err, &appErr) {
			for _, key := range []string{"section", "endpoint"} {
				if v, ok := appErr.Context[key].(string); ok && v != "" {
					args = append(args, slog.String(key, v))
				}
			}
		}
	}
	FromContext(ctx).Error(msg, args...)
}
