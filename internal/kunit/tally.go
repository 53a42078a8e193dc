// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package kunit

import (
	"io"
	"regexp"

	"github.com/acarl005/stripansi"
)

var recordRE = regexp.MustCompile(
	`^\[\d{2}:\d{2}:\d{2}\] (\[PASSED\]|\[FAILED\]|\[CRASH\]) (\S+)$`,
)

// Tally derives the counts from a record stream written by a [Printer].
//
// Color codes are ignored. The kernel crash state and the status word of the
// summary record are not part of the result, only the counts of distinct test
// names per record tag.
func Tally(records io.Reader) (Summary, error) {
	total, failed, crashed := nameSet{}, nameSet{}, nameSet{}

	scanner := newScanner(records)
	for scanner.Scan() {
		match := recordRE.FindStringSubmatch(stripansi.Strip(scanner.Text()))
		if match == nil {
			continue
		}

		name := TestName(match[2])
		total.add(name)

		switch match[1] {
		case TagFailed:
			failed.add(name)
		case TagCrash:
			crashed.add(name)
		}
	}

	summary := Summary{
		Total:   len(total),
		Failed:  len(failed),
		Crashed: len(crashed),
	}

	return summary, scanner.Err() //nolint:wrapcheck
}
