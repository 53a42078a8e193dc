// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package kbuild

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/aibor/kunitrun/internal/sys"
)

// UML runs a User Mode Linux kernel as a host process.
type UML struct {
	// Path to the UML kernel executable, usually "linux" in the build
	// directory.
	Kernel string

	// Additional kernel command line parameters.
	KernelArgs []string

	// Stderr of the kernel process. Discarded if nil.
	Stderr io.Writer
}

// NewUML returns a [UML] for the kernel built in the given build directory.
func NewUML(buildDir string, kernelArgs []string) *UML {
	return &UML{
		Kernel:     filepath.Join(buildDir, "linux"),
		KernelArgs: kernelArgs,
	}
}

// Args returns the kernel command line.
func (u *UML) Args() []string {
	args := []string{
		"mem=1G",
		"kunit_shutdown=halt",
	}

	return append(args, u.KernelArgs...)
}

// Run runs the kernel and writes its console output into stdout.
//
// Once the context is done, the kernel and all its helper processes are
// killed and the context's error is returned.
func (u *UML) Run(ctx context.Context, stdout io.Writer) error {
	cmd := sys.CommandContext(ctx, u.Kernel, u.Args()...)
	cmd.Stdout = stdout
	cmd.Stderr = u.Stderr

	slog.Debug("Run UML kernel", slog.String("command", cmd.String()))

	err := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("uml killed: %w", ctxErr)
	}

	if err != nil {
		return fmt.Errorf("uml: %w", err)
	}

	return nil
}
