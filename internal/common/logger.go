// Package common holds helpers shared by the command actions.
package common

import (
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
)

// NewLogger builds the structured logger for a command. Precedence:
// --quiet > --log-level flag > config level > info.
func NewLogger(c *cli.Context, configLevel string) *slog.Logger {
	level := slog.LevelInfo
	name := configLevel
	if c.IsSet("log-level") {
		name = c.String("log-level")
	}
	switch strings.ToLower(name) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if c.Bool("quiet") {
		level = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
