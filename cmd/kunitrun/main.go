// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/aibor/kunitrun/internal/cmd"
)

func main() {
	ctx, cancel := signal.NotifyContext(
		context.Background(),
		syscall.SIGABRT,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
		syscall.SIGHUP,
	)

	cfg := cmd.IO{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}

	exitCode := cmd.Run(ctx, os.Args[1:], cfg)

	cancel()
	os.Exit(exitCode)
}
