// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package kbuild

import (
	"errors"
	"strings"
)

// ErrKconfigLine is returned if a line of a kconfig file can not be parsed.
var ErrKconfigLine = errors.New("invalid kconfig line")

// ConfigError is returned if the kernel configuration could not be created or
// does not contain all requested options.
type ConfigError struct {
	// Options of the requested fragment missing in the resulting config.
	Missing []string
	// Output of the failed make invocation, if any.
	Output []byte
	Err    error
}

// Error implements the [error] interface.
func (e *ConfigError) Error() string {
	if len(e.Missing) > 0 {
		return "not all kconfig options were set: " +
			strings.Join(e.Missing, ", ")
	}

	return "configure: " + e.Err.Error()
}

// Is implements the [errors.Is] interface.
func (*ConfigError) Is(other error) bool {
	_, ok := other.(*ConfigError)
	return ok
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// BuildError is returned if the kernel build failed.
type BuildError struct {
	// Output of the failed make invocation.
	Output []byte
	Err    error
}

// Error implements the [error] interface.
func (e *BuildError) Error() string {
	return "build: " + e.Err.Error()
}

// Is implements the [errors.Is] interface.
func (*BuildError) Is(other error) bool {
	_, ok := other.(*BuildError)
	return ok
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *BuildError) Unwrap() error {
	return e.Err
}
