// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scaffold generates a skeleton KUnit test suite for a kernel source
// file along with the Kconfig and Makefile entries needed to build it.
package scaffold
