// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu

import (
	"strconv"
	"strings"

	"github.com/aibor/kunitrun/internal/sys"
)

const (
	machineTypeMicroVM = "microvm"
	machineTypePC      = "pc"
	machineTypeQ35     = "q35"
	machineTypeVirt    = "virt"
)

// CommandSpec defines the parameters for a [Command].
type CommandSpec struct {
	// Path to the qemu-system binary
	Executable string

	// Path to the kernel image to boot. KUnit and the tests to run must be
	// built in.
	Kernel string

	// QEMU machine type to use. Depends on the QEMU binary used.
	Machine string

	// CPU type to use. Depends on machine type and QEMU binary used.
	CPU string

	// Number of CPUs for the guest.
	SMP uint64

	// Memory for the machine in MB.
	Memory uint64

	// Disable KVM support.
	NoKVM bool

	// Transport type of the kernel console. This depends on machine type and
	// the kernel.
	TransportType TransportType

	// ExtraArgs are extra arguments that are passed to the QEMU command.
	// They must not collide with the essential arguments set by the command
	// itself or [NewCommand] fails.
	ExtraArgs []Argument

	// Additional kernel command line parameters, like "kunit.filter_glob=".
	KernelArgs []string

	// Increase kernel logging.
	Verbose bool
}

// AddDefaultsFor adds architecture specific default values to the given spec if
// the fields are not set yet.
func (s *CommandSpec) AddDefaultsFor(arch sys.Arch) error {
	var (
		executable    string
		machine       string
		transportType TransportType
	)

	switch arch {
	case sys.AMD64:
		executable = "qemu-system-x86_64"
		machine = machineTypeQ35
		transportType = TransportTypeISA
	case sys.ARM64:
		executable = "qemu-system-aarch64"
		machine = machineTypeVirt
		transportType = TransportTypeMMIO
	case sys.RISCV64:
		executable = "qemu-system-riscv64"
		machine = machineTypeVirt
		transportType = TransportTypeMMIO
	default:
		return sys.ErrArchNotSupported
	}

	if s.Executable == "" {
		s.Executable = executable
	}

	if s.Machine == "" {
		s.Machine = machine
	}

	if s.TransportType == "" {
		s.TransportType = transportType
	}

	if !s.NoKVM {
		s.NoKVM = !arch.KVMAvailable()
	}

	return nil
}

// Validate checks for known incompatibilities.
func (s *CommandSpec) Validate() error {
	if !s.TransportType.isKnown() {
		return &ArgumentError{
			"unknown transport type: " + s.TransportType.String(),
		}
	}

	switch s.Machine {
	case machineTypeMicroVM:
		if s.TransportType == TransportTypePCI {
			return &ArgumentError{"microvm does not support pci transport"}
		}
	case machineTypeVirt:
		if s.TransportType == TransportTypeISA {
			return &ArgumentError{"virt requires virtio-mmio"}
		}
	case machineTypeQ35, machineTypePC:
		if s.TransportType == TransportTypeMMIO {
			return &ArgumentError{
				s.Machine + " does not work with virtio-mmio",
			}
		}
	}

	return nil
}

// arguments compiles the argument list for the QEMU command.
func (s *CommandSpec) arguments() []Argument {
	args := []Argument{
		UniqueArg("kernel", s.Kernel),
	}

	if s.Machine != "" {
		args = append(args, UniqueArg("machine", s.Machine))
	}

	if s.CPU != "" {
		args = append(args, UniqueArg("cpu", s.CPU))
	}

	if s.SMP != 0 {
		args = append(args, UniqueArg("smp", strconv.FormatUint(s.SMP, 10)))
	}

	if s.Memory != 0 {
		args = append(args, UniqueArg("m", strconv.FormatUint(s.Memory, 10)))
	}

	if !s.NoKVM {
		args = append(args, UniqueArg("enable-kvm"))
	}

	args = append(args, s.TransportType.consoleArgs()...)

	args = append(args,
		// Disable video output.
		UniqueArg("display", "none"),
		// Disable QEMU monitor.
		UniqueArg("monitor", "none"),
		// Reboot after kunit_shutdown or panic terminates QEMU.
		UniqueArg("no-reboot"),
		// Disable all default devices.
		UniqueArg("nodefaults"),
		// Do not load any user config files.
		UniqueArg("no-user-config"),
	)

	args = append(args, s.ExtraArgs...)

	kernelCmdline := strings.Join(s.kernelCmdlineArgs(), " ")
	args = append(args, UniqueArg("append", kernelCmdline))

	return args
}

// kernelCmdlineArgs returns the kernel cmdline arguments.
func (s *CommandSpec) kernelCmdlineArgs() []string {
	cmdline := []string{
		"console=" + s.TransportType.ConsoleDeviceName(),
		// Reboot immediately on panic, so QEMU exits due to "-no-reboot".
		"panic=-1",
		"kunit_shutdown=reboot",
		"mitigations=off",
	}

	if s.Verbose {
		cmdline = append(cmdline, "debug")
	}

	return append(cmdline, s.KernelArgs...)
}
