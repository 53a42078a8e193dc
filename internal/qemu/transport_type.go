// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu

import (
	"slices"
)

const (
	// TransportTypeISA is a legacy serial port. The console is "ttyS0".
	TransportTypeISA TransportType = "isa"
	// TransportTypePCI is VirtIO PCI transport. Requires kernel built with
	// CONFIG_VIRTIO_PCI and CONFIG_VIRTIO_CONSOLE.
	TransportTypePCI TransportType = "pci"
	// TransportTypeMMIO is Virtio MMIO transport. Requires kernel built with
	// CONFIG_VIRTIO_MMIO and CONFIG_VIRTIO_CONSOLE.
	TransportTypeMMIO TransportType = "mmio"
)

// TransportType represents the QEMU transport of the kernel console.
type TransportType string

func (t TransportType) isKnown() bool {
	return slices.Contains([]TransportType{
		TransportTypeISA,
		TransportTypePCI,
		TransportTypeMMIO,
	}, t)
}

// String implements [fmt.Stringer].
func (t *TransportType) String() string {
	return string(*t)
}

// Set implements [flag.Value].
func (t *TransportType) Set(s string) error {
	return t.UnmarshalText([]byte(s))
}

// Type implements [pflag.Value].
func (*TransportType) Type() string {
	return "transport"
}

// MarshalText implements [encoding.TextMarshaler].
func (t TransportType) MarshalText() ([]byte, error) {
	if !t.isKnown() {
		return nil, ErrTransportTypeInvalid
	}

	return []byte(t), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (t *TransportType) UnmarshalText(text []byte) error {
	tt := TransportType(text)
	if !tt.isKnown() {
		return ErrTransportTypeInvalid
	}

	*t = tt

	return nil
}

// ConsoleDeviceName returns the name of the console device in the guest.
func (t TransportType) ConsoleDeviceName() string {
	if t == TransportTypeISA {
		return "ttyS0"
	}

	return "hvc0"
}

// consoleArgs returns the arguments for connecting the QEMU process's stdio
// with the console of the kernel.
func (t TransportType) consoleArgs() []Argument {
	const chardevID = "stdio"

	chardev := RepeatableArg("chardev", "stdio", "id="+chardevID)

	switch t {
	case TransportTypeISA:
		return []Argument{
			chardev,
			RepeatableArg("serial", "chardev:"+chardevID),
		}
	case TransportTypePCI:
		return []Argument{
			RepeatableArg("device", "virtio-serial-pci"),
			chardev,
			RepeatableArg("device", "virtconsole", "chardev="+chardevID),
		}
	case TransportTypeMMIO:
		return []Argument{
			RepeatableArg("device", "virtio-serial-device"),
			chardev,
			RepeatableArg("device", "virtconsole", "chardev="+chardevID),
		}
	default: // Ignore invalid transport types.
		return nil
	}
}
