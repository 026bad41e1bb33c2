package logger

import (
	"log/slog"
	"os"
)

// Log is the process-wide structured logger. Init must run before anything
// logs; main and TestMain both call it.
var Log *slog.Logger

func Init() {
	Log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}
