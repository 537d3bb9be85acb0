// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package script

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"
)

// LogLevelEnv selects the diagnostic log level: debug, info, warn or
// error.
const LogLevelEnv = "SCRIPTKIT_LOG_LEVEL"

// NewLogger creates the diagnostic logger for a script run. When w is a
// terminal it uses slog.TextHandler for human-readable output; otherwise
// slog.JSONHandler so piped runs produce machine-parseable lines.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	var handler slog.Handler
	options := &slog.HandlerOptions{Level: level}
	if isTerminal(w) {
		handler = slog.NewTextHandler(w, options)
	} else {
		handler = slog.NewJSONHandler(w, options)
	}
	return slog.New(handler)
}

// LevelFromEnv parses the value of LogLevelEnv, defaulting to warn so
// a normal run leaves stderr to the script's own errors.
func LevelFromEnv(getenv func(string) string) slog.Level {
	var level slog.Level
	value := strings.TrimSpace(getenv(LogLevelEnv))
	if value == "" || level.UnmarshalText([]byte(value)) != nil {
		return slog.LevelWarn
	}
	return level
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}
