// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package kunit

import (
	"fmt"
	"io"
	"maps"
	"slices"
)

const (
	statusComplete = "Testing complete."
	statusCrashed  = "Before the crash:"
)

// Summary holds the aggregated counts of a parsed run.
type Summary struct {
	Total         int
	Failed        int
	Crashed       int
	KernelCrashed bool
}

// Success returns true if no test failed or crashed and the kernel finished
// normally.
func (s Summary) Success() bool {
	return s.Failed == 0 && s.Crashed == 0 && !s.KernelCrashed
}

// String implements [fmt.Stringer].
func (s Summary) String() string {
	status := statusComplete
	if s.KernelCrashed {
		status = statusCrashed
	}

	return fmt.Sprintf("%s %d tests run. %d failed. %d crashed.",
		status, s.Total, s.Failed, s.Crashed)
}

type nameSet map[TestName]struct{}

func (s nameSet) add(name TestName) {
	s[name] = struct{}{}
}

func (s nameSet) has(name TestName) bool {
	_, exists := s[name]
	return exists
}

func (s nameSet) sorted() []TestName {
	return slices.Sorted(maps.Keys(s))
}

// Aggregator consumes classified console lines, prints a record for each
// finished test case and keeps track of all seen test names.
//
// It must not be used concurrently. Use one Aggregator per run.
type Aggregator struct {
	printer *Printer

	total   nameSet
	failed  nameSet
	crashed nameSet

	// Log lines of the currently running test case.
	caseLog []string

	kernelCrashed bool
}

// NewAggregator creates a new [Aggregator] that prints to the given
// [Printer].
func NewAggregator(printer *Printer) *Aggregator {
	return &Aggregator{
		printer: printer,
		total:   nameSet{},
		failed:  nameSet{},
		crashed: nameSet{},
	}
}

// Handle processes a single isolated console line.
func (a *Aggregator) Handle(line string) {
	event := Classify(line)

	switch event.Kind {
	case KindDivider:
		a.printer.Divider()
	case KindPassed:
		a.printer.Passed(event.Name)
		a.endCase(event.Name)
	case KindFailed:
		// Crashed test cases report as failed afterwards. Only the crash
		// is shown and counted.
		if a.crashed.has(event.Name) {
			return
		}

		a.failed.add(event.Name)
		a.printer.Failed(event.Name)
		a.printer.Warnings(a.caseLog)
		a.printer.Println("")
		a.endCase(event.Name)
	case KindCrashed:
		a.crashed.add(event.Name)
		a.printer.Crashed(event.Name)
		a.printer.Lines(a.caseLog)
		a.printer.Println("")
		a.endCase(event.Name)
	case KindLog:
		a.caseLog = append(a.caseLog, event.Text)
	}
}

// KernelCrash stops the aggregation after the kernel died. The log of the
// test case that was running is printed.
func (a *Aggregator) KernelCrash() {
	a.kernelCrashed = true

	a.printer.Fatal("The KUnit kernel crashed unexpectedly and was " +
		"unable to finish running tests!")
	a.printer.Fatal("These are the logs from the most recently running test:")
	a.printer.Divider()
	a.printer.Lines(a.caseLog)
	a.printer.Divider()
}

// Summary returns the current counts.
func (a *Aggregator) Summary() Summary {
	return Summary{
		Total:         len(a.total),
		Failed:        len(a.failed),
		Crashed:       len(a.crashed),
		KernelCrashed: a.kernelCrashed,
	}
}

// Total returns the names of all finished test cases in lexical order.
func (a *Aggregator) Total() []TestName {
	return a.total.sorted()
}

// Failed returns the names of all failed test cases in lexical order.
func (a *Aggregator) Failed() []TestName {
	return a.failed.sorted()
}

// Crashed returns the names of all crashed test cases in lexical order.
func (a *Aggregator) Crashed() []TestName {
	return a.crashed.sorted()
}

func (a *Aggregator) endCase(name TestName) {
	a.total.add(name)
	a.caseLog = a.caseLog[:0]
}

// Parse reads the console output from src until it ends, prints the records
// for all test cases and the final summary.
//
// A crashed kernel does not cause an error. It is reported in the returned
// [Aggregator]'s [Summary]. The only error returned is a read error of src.
func Parse(src io.Reader, printer *Printer) (*Aggregator, error) {
	aggregator := NewAggregator(printer)
	isolator := NewIsolator(src)

	printer.Divider()

	for {
		line, outcome := isolator.Next()
		if outcome == OutcomeCrash {
			aggregator.KernelCrash()
		}

		if outcome != OutcomeLine {
			break
		}

		aggregator.Handle(line)
	}

	printer.Summary(aggregator.Summary())

	return aggregator, isolator.Err()
}

// Raw copies the console output from src to dst line by line, without any
// processing.
func Raw(dst io.Writer, src io.Reader) error {
	scanner := newScanner(src)

	for scanner.Scan() {
		_, err := fmt.Fprintln(dst, scanner.Text())
		if err != nil {
			return fmt.Errorf("write: %w", err)
		}
	}

	return scanner.Err() //nolint:wrapcheck
}
