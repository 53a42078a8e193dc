// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"io"
	"log/slog"
)

// setupLogging sets the default logger for diagnostics. Test results are not
// logged but printed.
//
// Records omit the time unless debug is enabled.
func setupLogging(writer io.Writer, debug bool) {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}

	replaceAttr := func(groups []string, attr slog.Attr) slog.Attr {
		if !debug && len(groups) == 0 && attr.Key == slog.TimeKey {
			return slog.Attr{}
		}

		return attr
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(
		writer,
		&slog.HandlerOptions{
			Level:       level,
			ReplaceAttr: replaceAttr,
		},
	)))
}
