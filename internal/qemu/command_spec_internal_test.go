// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu

import (
	"testing"

	"github.com/aibor/kunitrun/internal/sys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandSpec_Arguments(t *testing.T) {
	tests := []struct {
		name   string
		spec   CommandSpec
		expect any
		assert assert.ComparisonAssertionFunc
	}{
		{
			name: "machine params",
			spec: CommandSpec{
				Machine: "pc4.2",
				CPU:     "8086",
				SMP:     23,
				Memory:  269,
			},
			expect: []Argument{
				UniqueArg("machine", "pc4.2"),
				UniqueArg("cpu", "8086"),
				UniqueArg("smp", "23"),
				UniqueArg("m", "269"),
			},
			assert: assert.Subset,
		},
		{
			name:   "yes-kvm",
			spec:   CommandSpec{},
			expect: UniqueArg("enable-kvm"),
			assert: assert.Contains,
		},
		{
			name:   "no-kvm",
			spec:   CommandSpec{NoKVM: true},
			expect: UniqueArg("enable-kvm"),
			assert: assert.NotContains,
		},
		{
			name:   "verbose",
			spec:   CommandSpec{Verbose: true},
			expect: " debug",
			assert: ArgumentValueAssertionFunc("append", assert.Contains),
		},
		{
			name:   "kunit shutdown",
			spec:   CommandSpec{},
			expect: "panic=-1 kunit_shutdown=reboot",
			assert: ArgumentValueAssertionFunc("append", assert.Contains),
		},
		{
			name: "kernel args",
			spec: CommandSpec{
				KernelArgs: []string{"kunit.filter_glob=list*", "kunit.stats_enabled=2"},
			},
			expect: " kunit.filter_glob=list* kunit.stats_enabled=2",
			assert: ArgumentValueAssertionFunc("append", assert.Contains),
		},
		{
			name: "console isa",
			spec: CommandSpec{TransportType: TransportTypeISA},
			expect: []Argument{
				RepeatableArg("chardev", "stdio,id=stdio"),
				RepeatableArg("serial", "chardev:stdio"),
			},
			assert: assert.Subset,
		},
		{
			name: "console mmio",
			spec: CommandSpec{TransportType: TransportTypeMMIO},
			expect: []Argument{
				RepeatableArg("device", "virtio-serial-device"),
				RepeatableArg("chardev", "stdio,id=stdio"),
				RepeatableArg("device", "virtconsole,chardev=stdio"),
			},
			assert: assert.Subset,
		},
		{
			name:   "console device name",
			spec:   CommandSpec{TransportType: TransportTypePCI},
			expect: "console=hvc0 ",
			assert: ArgumentValueAssertionFunc("append", assert.Contains),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.assert(t, tt.spec.arguments(), tt.expect)
		})
	}
}

func TestCommandSpec_AddDefaultsFor(t *testing.T) {
	t.Run("unsupported", func(t *testing.T) {
		spec := CommandSpec{}
		require.ErrorIs(t, spec.AddDefaultsFor(sys.UM), sys.ErrArchNotSupported)
	})

	t.Run("keeps set values", func(t *testing.T) {
		spec := CommandSpec{
			Executable:    "my-qemu",
			Machine:       "pc",
			TransportType: TransportTypePCI,
			NoKVM:         true,
		}

		require.NoError(t, spec.AddDefaultsFor(sys.AMD64))
		assert.Equal(t, "my-qemu", spec.Executable)
		assert.Equal(t, "pc", spec.Machine)
		assert.Equal(t, TransportTypePCI, spec.TransportType)
		assert.True(t, spec.NoKVM)
	})

	t.Run("arm64", func(t *testing.T) {
		spec := CommandSpec{}

		require.NoError(t, spec.AddDefaultsFor(sys.ARM64))
		assert.Equal(t, "qemu-system-aarch64", spec.Executable)
		assert.Equal(t, machineTypeVirt, spec.Machine)
		assert.Equal(t, TransportTypeMMIO, spec.TransportType)
	})
}

func TestCommandSpec_Validate(t *testing.T) {
	tests := []struct {
		name        string
		spec        CommandSpec
		expectedErr error
	}{
		{
			name:        "unknown transport",
			spec:        CommandSpec{TransportType: "usb"},
			expectedErr: &ArgumentError{},
		},
		{
			name: "microvm pci",
			spec: CommandSpec{
				Machine:       machineTypeMicroVM,
				TransportType: TransportTypePCI,
			},
			expectedErr: &ArgumentError{},
		},
		{
			name: "virt isa",
			spec: CommandSpec{
				Machine:       machineTypeVirt,
				TransportType: TransportTypeISA,
			},
			expectedErr: &ArgumentError{},
		},
		{
			name: "q35 mmio",
			spec: CommandSpec{
				Machine:       machineTypeQ35,
				TransportType: TransportTypeMMIO,
			},
			expectedErr: &ArgumentError{},
		},
		{
			name: "q35 isa",
			spec: CommandSpec{
				Machine:       machineTypeQ35,
				TransportType: TransportTypeISA,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, tt.spec.Validate(), tt.expectedErr)
		})
	}
}
