// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package kunit

import (
	"bufio"
	"io"
	"regexp"
	"strings"
)

const maxLineLength = 1 << 20

var (
	startRE = regexp.MustCompile(`console .* enabled`)
	endRE   = regexp.MustCompile(`List of all partitions:`)
)

// Outcome is the result of a single [Isolator.Next] call.
type Outcome int

const (
	// OutcomeLine means a line of the test output region is returned.
	OutcomeLine Outcome = iota
	// OutcomeEnd means the end banner has been seen. The run finished
	// normally.
	OutcomeEnd
	// OutcomeCrash means the stream ended without the end banner. The kernel
	// crashed, hung and was killed, or its output got lost otherwise.
	OutcomeCrash
)

// Isolator yields the lines of the region of a console stream that contains
// test output.
//
// Lines before the console banner are discarded. The region ends with the
// partition table banner that is printed late in a normal run. If the stream
// ends before that, the kernel is considered crashed.
type Isolator struct {
	scanner *bufio.Scanner
	started bool
	outcome Outcome
	done    bool
}

// NewIsolator creates a new [Isolator] reading from the given reader.
func NewIsolator(src io.Reader) *Isolator {
	return &Isolator{scanner: newScanner(src)}
}

// Next returns the next line of the test output region.
//
// As long as the returned [Outcome] is [OutcomeLine], the line is valid.
// Once [OutcomeEnd] or [OutcomeCrash] is returned, all further calls return
// the same outcome.
func (i *Isolator) Next() (string, Outcome) {
	for !i.done {
		if !i.scanner.Scan() {
			return "", i.finish(OutcomeCrash)
		}

		line := strings.TrimRight(i.scanner.Text(), "\r")

		switch {
		case startRE.MatchString(line):
			i.started = true
		case endRE.MatchString(line):
			return "", i.finish(OutcomeEnd)
		case i.started:
			return line, OutcomeLine
		}
	}

	return "", i.outcome
}

// Err returns the read error that ended the stream, if any.
func (i *Isolator) Err() error {
	return i.scanner.Err() //nolint:wrapcheck
}

func (i *Isolator) finish(outcome Outcome) Outcome {
	i.done = true
	i.outcome = outcome

	return outcome
}

func newScanner(src io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLineLength)

	return scanner
}
