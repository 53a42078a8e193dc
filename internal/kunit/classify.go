// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package kunit

import (
	"regexp"
)

// printk timestamp as printed with CONFIG_PRINTK_TIME.
const timestampPrefix = `^(?:\[[0-9. ]+\] )?`

var (
	moduleDoneRE  = regexp.MustCompile(timestampPrefix + `kunit .*: (?:all tests passed|one or more tests failed)`)
	casePassedRE  = regexp.MustCompile(timestampPrefix + `kunit (\S+): (\S+) passed$`)
	caseFailedRE  = regexp.MustCompile(timestampPrefix + `kunit (\S+): (\S+) failed$`)
	caseCrashedRE = regexp.MustCompile(timestampPrefix + `kunit (\S+): (\S+) crashed$`)
	caseOutputRE  = regexp.MustCompile(timestampPrefix + `kunit [^:]*: (.*)$`)
)

// TestName identifies a test case by module and case name in the form
// "module:case".
type TestName string

// NewTestName returns the [TestName] for the given module and case.
func NewTestName(module, testCase string) TestName {
	return TestName(module + ":" + testCase)
}

// Kind is the semantic meaning of a console line.
type Kind int

const (
	// KindLog is any line that is not a result. It belongs to the currently
	// running test case.
	KindLog Kind = iota
	// KindDivider is the result banner of a whole test module.
	KindDivider
	// KindPassed is the result line of a passed test case.
	KindPassed
	// KindFailed is the result line of a failed test case.
	KindFailed
	// KindCrashed is the result line of a crashed test case.
	KindCrashed
)

// String implements [fmt.Stringer].
func (k Kind) String() string {
	switch k {
	case KindLog:
		return "log"
	case KindDivider:
		return "divider"
	case KindPassed:
		return "passed"
	case KindFailed:
		return "failed"
	case KindCrashed:
		return "crashed"
	default:
		return "unknown"
	}
}

// Terminal returns true if the kind ends a test case.
func (k Kind) Terminal() bool {
	return k == KindPassed || k == KindFailed || k == KindCrashed
}

// Event is a classified console line.
type Event struct {
	Kind Kind

	// Name of the test case for terminal events.
	Name TestName

	// Text of log events with any "kunit <module>: " prefix removed.
	Text string
}

// Classify returns the [Event] the given line represents.
//
// Patterns are checked in fixed priority order. Every line matches at least
// as [KindLog], so Classify never fails.
func Classify(line string) Event {
	if moduleDoneRE.MatchString(line) {
		return Event{Kind: KindDivider}
	}

	results := []struct {
		kind Kind
		re   *regexp.Regexp
	}{
		{KindPassed, casePassedRE},
		{KindFailed, caseFailedRE},
		{KindCrashed, caseCrashedRE},
	}

	for _, result := range results {
		match := result.re.FindStringSubmatch(line)
		if match != nil {
			return Event{
				Kind: result.kind,
				Name: NewTestName(match[1], match[2]),
			}
		}
	}

	if match := caseOutputRE.FindStringSubmatch(line); match != nil {
		return Event{Kind: KindLog, Text: match[1]}
	}

	return Event{Kind: KindLog, Text: line}
}
