package logger

import (
	"log/slog"
	"os"
)

// New — JSON-логгер приложения; в dev-окружении человекочитаемый
// текстовый вывод и debug-уровень.
func New(env string) *slog.Logger {
	if env == "dev" {
		h := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
		return slog.New(h)
	}
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	return slog.New(h)
}
