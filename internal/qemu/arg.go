// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu

import (
	"fmt"
	"slices"
	"strings"
)

// Argument is a QEMU argument with or without value.
//
// Its name might be marked to be unique in a list of arguments.
type Argument struct {
	name       string
	value      string
	repeatable bool
}

// UniqueArg returns a new [Argument] with the given name that may be present
// only once in an argument list.
func UniqueArg(name string, value ...string) Argument {
	return Argument{
		name:  name,
		value: strings.Join(value, ","),
	}
}

// RepeatableArg returns a new [Argument] with the given name that may be
// present multiple times with different values in an argument list.
func RepeatableArg(name string, value ...string) Argument {
	return Argument{
		name:       name,
		value:      strings.Join(value, ","),
		repeatable: true,
	}
}

// ParseArgument parses a single argument given as "name" or "name=value".
//
// Arguments parsed are always repeatable, so only identical name value pairs
// collide.
func ParseArgument(s string) (Argument, error) {
	name, value, _ := strings.Cut(strings.TrimLeft(s, "-"), "=")
	if name == "" {
		return Argument{}, &ArgumentError{"empty argument name: " + s}
	}

	return RepeatableArg(name, value), nil
}

// String implements [fmt.Stringer].
func (a Argument) String() string {
	if a.value == "" {
		return "-" + a.name
	}

	return "-" + a.name + " " + a.value
}

// Name returns the name of the [Argument].
func (a Argument) Name() string {
	return a.name
}

// Value returns the value of the [Argument].
func (a Argument) Value() string {
	return a.value
}

// Collides returns true if both arguments must not be present in the same
// argument list.
//
// Unique arguments collide by name. Repeatable arguments collide only if name
// and value are equal.
func (a Argument) Collides(other Argument) bool {
	if a.name != other.name {
		return false
	}

	if a.repeatable && other.repeatable {
		return a.value == other.value
	}

	return true
}

// buildArgumentStrings compiles the arguments into a slice of strings which
// can be used with [exec.Command].
func buildArgumentStrings(args []Argument) ([]string, error) {
	strs := make([]string, 0, 2*len(args))

	for idx, arg := range args {
		if i := slices.IndexFunc(args[:idx], arg.Collides); i != -1 {
			return nil, fmt.Errorf("%w: %s, %s",
				ErrArgumentCollision, args[i], arg)
		}

		strs = append(strs, "-"+arg.name)
		if arg.value != "" {
			strs = append(strs, arg.value)
		}
	}

	return strs, nil
}
