// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package kunit turns the console output of a KUnit kernel into structured
// test results.
//
// The console stream is first narrowed down by an [Isolator] to the region
// between the boot console banner and the partition table banner printed late
// in a normal run. Each isolated line is classified by [Classify] and fed into
// an [Aggregator] that prints one record per finished test case using a
// [Printer] and keeps the counts for the final [Summary].
//
// A kernel that panics or hangs never prints the partition table banner. The
// [Isolator] reports this as [OutcomeCrash] once the stream is exhausted and
// the [Aggregator] prints the log of the test that was running at that time.
package kunit
