package testutil

import (
	"io"
	"log/slog"

	"github.com/AyanMustafa/Anevo/internal/logger"
)

func MakeNoopLogger() *logger.Logger {
	return &logger.Logger{Logger: slog.New(slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{}))}
}
