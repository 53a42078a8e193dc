// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package harness

import (
	"fmt"
	"time"

	"github.com/aibor/kunitrun/internal/kunit"
)

// Status is the procedural outcome of a [Harness] run.
//
// It only reflects whether the kernel could be configured and built. Test
// results are reported in [Result.Summary].
type Status int

// Run statuses.
const (
	StatusSuccess Status = iota
	StatusConfigFailure
	StatusBuildFailure
	StatusError
)

// String implements [fmt.Stringer].
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusConfigFailure:
		return "config failure"
	case StatusBuildFailure:
		return "build failure"
	default:
		return "error"
	}
}

// Timing holds the wall clock time of the stages.
type Timing struct {
	Configure time.Duration
	Build     time.Duration
	Run       time.Duration
	Total     time.Duration
}

// String implements [fmt.Stringer].
func (t Timing) String() string {
	return fmt.Sprintf(
		"Elapsed time: %.3fs total, %.3fs configuring, %.3fs building, %.3fs running",
		t.Total.Seconds(),
		t.Configure.Seconds(),
		t.Build.Seconds(),
		t.Run.Seconds(),
	)
}

// Result of a [Harness] run.
type Result struct {
	Status Status
	Timing Timing

	// Summary of the parsed test results. It is nil if the run stage was not
	// reached or the output was not parsed.
	Summary *kunit.Summary

	// RunErr is the error returned by the [Runner], if any. A runner error
	// is not fatal, as the output produced so far is still parsed.
	RunErr error
}

// TestsPassed returns true if the output was parsed and all tests passed.
func (r *Result) TestsPassed() bool {
	return r.Summary != nil && r.Summary.Success()
}
