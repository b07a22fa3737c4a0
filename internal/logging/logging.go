// Package logging держит slog-логгер в контексте запроса.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/Leganyst/appointment-booking/internal/apperr"
)

type contextKey struct{}

// New создаёт JSON-логгер. В development уровень Debug, иначе Info.
func New(env string, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stdout
	}
	level := slog.LevelInfo
	if strings.EqualFold(env, "development") {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	if ctx == nil || logger == nil {
		return ctx
	}
	return context.WithValue(ctx, contextKey{}, logger)
}

func FromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return nil
	}
	logger, _ := ctx.Value(contextKey{}).(*slog.Logger)
	return logger
}

// Default возвращает logger или slog.Default(), если он nil.
func Default(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}

// ForOperation возвращает логгер операции. Он берётся из контекста (там уже request id),
// иначе base; добавляются service и operation.
func ForOperation(ctx context.Context, base *slog.Logger, service, operation string, attrs ...any) *slog.Logger {
	logger := FromContext(ctx)
	if logger == nil {
		logger = Default(base)
	}

	pairs := []any{"service", service}
	if operation != "" {
		pairs = append(pairs, "operation", operation)
	}
	if len(attrs) > 0 {
		pairs = append(pairs, attrs...)
	}
	return logger.With(pairs...)
}

// ErrorKind — стабильная метка ошибки для логов.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	return apperr.KindOf(err).String()
}

// LogResult пишет итог операции: ошибки клиента на Warn, сбои на Error.
func LogResult(ctx context.Context, logger *slog.Logger, err error, msg string, attrs ...any) {
	if err == nil {
		logger.InfoContext(ctx, msg, attrs...)
		return
	}
	attrs = append(attrs, "error_kind", ErrorKind(err), "error", err)
	switch apperr.KindOf(err) {
	case apperr.KindConnectivity, apperr.KindUnknown:
		logger.ErrorContext(ctx, msg+" failed", attrs...)
	default:
		logger.WarnContext(ctx, msg+" rejected", attrs...)
	}
}
