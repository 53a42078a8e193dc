// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/aibor/kunitrun/internal/sys"
)

// Command is a single QEMU command that boots a KUnit kernel.
type Command struct {
	// Stderr of the QEMU process. Discarded if nil.
	Stderr io.Writer

	executable string
	args       []string
}

// NewCommand creates a new [Command] from the given [CommandSpec].
//
// It returns an error if the spec is invalid or if arguments collide.
func NewCommand(spec CommandSpec) (*Command, error) {
	err := spec.Validate()
	if err != nil {
		return nil, err
	}

	args, err := buildArgumentStrings(spec.arguments())
	if err != nil {
		return nil, err
	}

	cmd := &Command{
		executable: spec.Executable,
		args:       args,
	}

	return cmd, nil
}

// String prints the human readable string representation of the command.
//
// It just joins the executable and args with spaces. It does not quote any
// arguments, so it might not be safe to use as a shell command.
func (c *Command) String() string {
	return c.executable + " " + strings.Join(c.args, " ")
}

// Run runs the QEMU command with the given context and writes the kernel
// console output into stdout.
//
// Once the context is done, QEMU is killed. In that case the context's error
// is returned. Output written before is not lost. An error is also returned if
// QEMU exits with a non-zero exit code on its own.
func (c *Command) Run(ctx context.Context, stdout io.Writer) error {
	cmd := sys.CommandContext(ctx, c.executable, c.args...)
	cmd.Stdout = stdout
	cmd.Stderr = c.Stderr

	slog.Debug("Run QEMU", slog.String("command", c.String()))

	err := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("qemu killed: %w", ctxErr)
	}

	if err != nil {
		cmdErr := &CommandError{Err: err}

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			cmdErr.ExitCode = exitErr.ExitCode()
		}

		return cmdErr
	}

	return nil
}
