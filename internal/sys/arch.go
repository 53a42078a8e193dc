// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import (
	"os"
	"path/filepath"
	"runtime"
)

// Arch is a kernel target architecture.
type Arch string

// Supported kernel architectures.
const (
	AMD64   Arch = "amd64"
	ARM64   Arch = "arm64"
	RISCV64 Arch = "riscv64"

	// UM is User Mode Linux. The kernel is a regular host executable and
	// does not need an emulator.
	UM Arch = "um"
)

// Native is the architecture of the host. Using the same architecture for the
// guest allows using KVM, if available. Use [Arch.KVMAvailable] to check.
const Native Arch = Arch(runtime.GOARCH)

// String implements [fmt.Stringer].
func (a *Arch) String() string {
	return string(*a)
}

// Set implements [flag.Value].
func (a *Arch) Set(s string) error {
	switch Arch(s) {
	case AMD64, ARM64, RISCV64, UM:
		*a = Arch(s)
	default:
		return ErrArchNotSupported
	}

	return nil
}

// Type implements [pflag.Value].
func (*Arch) Type() string {
	return "arch"
}

// IsNative returns true if the architecture matches the host's.
func (a *Arch) IsNative() bool {
	return Native == *a
}

// KVMAvailable checks if KVM support is available for the given architecture.
func (a *Arch) KVMAvailable() bool {
	if !a.IsNative() {
		return false
	}

	f, err := os.OpenFile("/dev/kvm", os.O_WRONLY, 0)
	_ = f.Close()

	return err == nil
}

// KbuildArch returns the value of the ARCH variable for the kernel build
// system.
func (a *Arch) KbuildArch() (string, error) {
	switch *a {
	case AMD64:
		return "x86_64", nil
	case ARM64:
		return "arm64", nil
	case RISCV64:
		return "riscv", nil
	case UM:
		return "um", nil
	default:
		return "", ErrArchNotSupported
	}
}

// KernelImage returns the path of the bootable kernel image relative to the
// build output directory.
func (a *Arch) KernelImage() (string, error) {
	switch *a {
	case AMD64:
		return filepath.Join("arch", "x86", "boot", "bzImage"), nil
	case ARM64:
		return filepath.Join("arch", "arm64", "boot", "Image"), nil
	case RISCV64:
		return filepath.Join("arch", "riscv", "boot", "Image"), nil
	case UM:
		return "linux", nil
	default:
		return "", ErrArchNotSupported
	}
}
