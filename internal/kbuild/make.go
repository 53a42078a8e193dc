// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package kbuild

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/aibor/kunitrun/internal/sys"
)

const dotConfig = ".config"

// Make configures and builds a kernel with the kernel's make based build
// system.
type Make struct {
	// Make executable. Defaults to "make" if empty.
	Executable string

	// Kernel source tree. The current working directory is used if empty.
	SourceDir string

	// Output directory for the config and all build artifacts.
	BuildDir string

	// Target architecture.
	Arch sys.Arch

	// Number of parallel build jobs. Make's default is used if zero.
	Jobs uint

	// Path to the kconfig fragment that the config must satisfy. If empty,
	// [DefaultKunitconfig] is used.
	Kunitconfig string

	// Optional writer for the make output. It is captured for errors in any
	// case.
	Output io.Writer
}

// ConfigPath returns the path of the kernel config in the build directory.
func (m *Make) ConfigPath() string {
	return filepath.Join(m.BuildDir, dotConfig)
}

// KernelImage returns the path of the kernel image built for the architecture.
func (m *Make) KernelImage() (string, error) {
	image, err := m.Arch.KernelImage()
	if err != nil {
		return "", fmt.Errorf("kernel image: %w", err)
	}

	return filepath.Join(m.BuildDir, image), nil
}

// Configure makes sure the kernel config in the build directory satisfies
// the kunitconfig fragment.
//
// If the existing config already satisfies the fragment, nothing is done.
// Otherwise the fragment is written as new config and completed by make's
// olddefconfig target. If any option of the fragment does not survive, a
// [ConfigError] listing them is returned.
func (m *Make) Configure(ctx context.Context) error {
	fragment, err := m.fragment()
	if err != nil {
		return &ConfigError{Err: err}
	}

	current, err := ReadKconfig(m.ConfigPath())

	switch {
	case err == nil:
		if len(fragment.Missing(current)) == 0 {
			slog.Debug("Kernel config up to date", slog.String("path", m.ConfigPath()))
			return nil
		}

		slog.Debug("Kernel config outdated, regenerating", slog.String("path", m.ConfigPath()))
	case errors.Is(err, fs.ErrNotExist):
		slog.Debug("Kernel config missing, generating", slog.String("path", m.ConfigPath()))
	default:
		return &ConfigError{Err: err}
	}

	err = m.writeConfig(fragment)
	if err != nil {
		return &ConfigError{Err: err}
	}

	output, err := m.make(ctx, "olddefconfig")
	if err != nil {
		return &ConfigError{Output: output, Err: err}
	}

	result, err := ReadKconfig(m.ConfigPath())
	if err != nil {
		return &ConfigError{Err: err}
	}

	if missing := fragment.Missing(result); len(missing) > 0 {
		return &ConfigError{Missing: missing}
	}

	return nil
}

// Build builds the kernel in the build directory.
func (m *Make) Build(ctx context.Context) error {
	var args []string
	if m.Jobs > 0 {
		args = append(args, "--jobs="+strconv.FormatUint(uint64(m.Jobs), 10))
	}

	output, err := m.make(ctx, args...)
	if err != nil {
		return &BuildError{Output: output, Err: err}
	}

	return nil
}

func (m *Make) fragment() (Kconfig, error) {
	if m.Kunitconfig == "" {
		return ParseKconfig(strings.NewReader(DefaultKunitconfig))
	}

	fragment, err := ReadKconfig(m.Kunitconfig)
	if err != nil {
		return nil, fmt.Errorf("kunitconfig: %w", err)
	}

	return fragment, nil
}

func (m *Make) writeConfig(kconfig Kconfig) error {
	err := os.MkdirAll(m.BuildDir, 0o755)
	if err != nil {
		return fmt.Errorf("create build dir: %w", err)
	}

	file, err := os.Create(m.ConfigPath())
	if err != nil {
		return fmt.Errorf("create config: %w", err)
	}
	defer file.Close()

	_, err = kconfig.WriteTo(file)
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}

func (m *Make) make(ctx context.Context, targets ...string) ([]byte, error) {
	kbuildArch, err := m.Arch.KbuildArch()
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	buildDir, err := filepath.Abs(m.BuildDir)
	if err != nil {
		return nil, fmt.Errorf("build dir: %w", err)
	}

	executable := m.Executable
	if executable == "" {
		executable = "make"
	}

	args := append([]string{"ARCH=" + kbuildArch, "O=" + buildDir}, targets...)

	var output bytes.Buffer

	cmd := sys.CommandContext(ctx, executable, args...)
	cmd.Dir = m.SourceDir
	cmd.Stdout = &output
	cmd.Stderr = &output

	if m.Output != nil {
		cmd.Stdout = io.MultiWriter(&output, m.Output)
		cmd.Stderr = cmd.Stdout
	}

	slog.Debug("Run make", slog.String("command", cmd.String()))

	err = cmd.Run()
	if err != nil {
		return output.Bytes(), fmt.Errorf("%s: %w", executable, err)
	}

	return output.Bytes(), nil
}
