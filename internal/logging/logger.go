// Package logging wires slog to stdout and to the system_logs table.
package logging

import (
	"log/slog"
	"os"
)

// Setup installs a JSON slog logger on stdout as the process default.
// main swaps it for a MultiHandler once the database is reachable, so
// records emitted during boot still land somewhere.
func Setup() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))
}
