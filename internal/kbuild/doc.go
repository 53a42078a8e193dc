// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package kbuild configures and builds a kernel with the kernel build system
// and runs User Mode Linux kernels.
//
// All make invocations use a separate output directory, so the source tree
// stays clean.
package kbuild
