// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package harness

import "errors"

// ErrCollaboratorMissing is returned if a [Harness] lacks a collaborator.
var ErrCollaboratorMissing = errors.New("collaborator missing")

// Stage is a stage of a [Harness] run.
type Stage string

// Harness stages.
const (
	StageConfigure Stage = "configure"
	StageBuild     Stage = "build"
	StageRun       Stage = "run"
	StageParse     Stage = "parse"
)

// StageError wraps any error that aborted a [Harness] run, along with the
// stage it happened in.
type StageError struct {
	Stage Stage
	Err   error
}

// Error implements the [error] interface.
func (e *StageError) Error() string {
	return string(e.Stage) + ": " + e.Err.Error()
}

// Is implements the [errors.Is] interface.
func (e *StageError) Is(other error) bool {
	otherErr, ok := other.(*StageError)
	if !ok {
		return false
	}

	return otherErr.Stage == "" || otherErr.Stage == e.Stage
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *StageError) Unwrap() error {
	return e.Err
}
