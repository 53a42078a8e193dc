// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package qemu provides utilities for composing and running QEMU system
// virtualization commands that boot a KUnit kernel. It expects the required
// QEMU binary to be present on the system.
//
// The kernel is booted without any root file system. Built-in KUnit tests run
// during boot and the kernel prints all output on a single console that is
// connected to the stdout of the QEMU process.
package qemu
