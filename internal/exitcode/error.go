// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package exitcode

import (
	"errors"
	"fmt"
)

// Exit codes of the kunitrun command.
const (
	Success       = 0
	TestFailure   = 1
	ConfigFailure = 2
	BuildFailure  = 3
	Other         = 4
)

// Error is an exit code that is considered an error.
type Error int

func (e Error) Error() string {
	switch e {
	case TestFailure:
		return "tests failed"
	case ConfigFailure:
		return "configuration failed"
	case BuildFailure:
		return "build failed"
	default:
		return fmt.Sprintf("non-zero exit code: %d", e)
	}
}

func (Error) Is(other error) bool {
	_, ok := other.(Error)
	return ok
}

// Code returns the exit code as basic int type.
func (e Error) Code() int {
	return int(e)
}

// From returns an exit code based on the given error and if the error was an
// [Error].
//
// If the error is nil, the exit code is [Success]. If the error is an [Error]
// the exit code is the return value of [Error.Code]. Otherwise the exit code
// is [Other].
func From(err error) (int, bool) {
	if err == nil {
		return Success, false
	}

	var exitErr Error
	if errors.As(err, &exitErr) {
		return exitErr.Code(), true
	}

	return Other, false
}
