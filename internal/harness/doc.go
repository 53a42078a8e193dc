// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package harness drives a KUnit run through its stages: configure the
// kernel, build it, run it with a timeout and parse its console output.
//
// The stages are implemented by collaborators, see [Configurer], [Builder]
// and [Runner].
package harness
