// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"github.com/aibor/kunitrun/internal/harness"
	"github.com/aibor/kunitrun/internal/qemu"
	"github.com/aibor/kunitrun/internal/sys"
	"github.com/spf13/pflag"
)

const (
	buildDirDefault = ".kunit"
	makeDefault     = "make"
	cpuDefault      = "max"

	memDefault = 1024
	memMin     = 128
	memMax     = 16384

	smpDefault = 1
	smpMin     = 1
	smpMax     = 16
)

// qemuArgsValue is a [pflag.Value] collecting extra QEMU arguments.
type qemuArgsValue []qemu.Argument

func (q *qemuArgsValue) String() string {
	strs := make([]string, 0, len(*q))
	for _, arg := range *q {
		strs = append(strs, arg.String())
	}

	return strings.Join(strs, " ")
}

func (q *qemuArgsValue) Set(s string) error {
	arg, err := qemu.ParseArgument(s)
	if err != nil {
		return err //nolint:wrapcheck
	}

	*q = append(*q, arg)

	return nil
}

func (*qemuArgsValue) Type() string {
	return "arg"
}

type runFlags struct {
	buildDir    FilePath
	arch        sys.Arch
	jobs        uint
	timeout     uint
	kunitconfig FilePath
	kernelArgs  []string
	makeBin     string
	rawOutput   bool
	strict      bool
	noColor     bool

	qemu     qemu.CommandSpec
	qemuArgs qemuArgsValue
}

// newRunFlags returns the run flags with their defaults, overridden by the
// values of the given [Config].
func newRunFlags(config *Config) (*runFlags, error) {
	flags := &runFlags{
		buildDir: buildDirDefault,
		arch:     sys.UM,
		jobs:     uint(runtime.NumCPU()), //nolint:gosec
		timeout:  uint(harness.DefaultTimeout.Seconds()),
		makeBin:  makeDefault,
		qemu: qemu.CommandSpec{
			CPU:    cpuDefault,
			Memory: memDefault,
			SMP:    smpDefault,
		},
	}

	err := flags.apply(config)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return flags, nil
}

func (f *runFlags) apply(config *Config) error {
	setters := []struct {
		name  string
		value string
		flag  pflag.Value
	}{
		{"build_dir", config.BuildDir, &f.buildDir},
		{"arch", config.Arch, &f.arch},
		{"kunitconfig", config.Kunitconfig, &f.kunitconfig},
		{"transport", config.Transport, &f.qemu.TransportType},
		{"memory", formatUint(config.Memory), f.memoryValue()},
		{"smp", formatUint(config.SMP), f.smpValue()},
	}

	for _, setter := range setters {
		if setter.value == "" {
			continue
		}

		err := setter.flag.Set(setter.value)
		if err != nil {
			return fmt.Errorf("%s: %w", setter.name, err)
		}
	}

	for _, arg := range config.QemuArgs {
		err := f.qemuArgs.Set(arg)
		if err != nil {
			return fmt.Errorf("qemu_args: %w", err)
		}
	}

	if config.Jobs > 0 {
		f.jobs = config.Jobs
	}

	if config.Timeout > 0 {
		f.timeout = config.Timeout
	}

	if config.MakeBin != "" {
		f.makeBin = config.MakeBin
	}

	if config.QemuBin != "" {
		f.qemu.Executable = config.QemuBin
	}

	if config.Machine != "" {
		f.qemu.Machine = config.Machine
	}

	if config.CPU != "" {
		f.qemu.CPU = config.CPU
	}

	f.kernelArgs = append(f.kernelArgs, config.KernelArgs...)
	f.rawOutput = config.RawOutput
	f.strict = config.Strict
	f.noColor = config.NoColor
	f.qemu.NoKVM = config.NoKVM
	f.qemu.Verbose = config.Verbose

	return nil
}

func (f *runFlags) memoryValue() pflag.Value {
	return &LimitedUintValue{
		Value: &f.qemu.Memory,
		Lower: memMin,
		Upper: memMax,
	}
}

func (f *runFlags) smpValue() pflag.Value {
	return &LimitedUintValue{
		Value: &f.qemu.SMP,
		Lower: smpMin,
		Upper: smpMax,
	}
}

func (f *runFlags) register(flagSet *pflag.FlagSet) {
	flagSet.Var(
		&f.buildDir,
		"build_dir",
		"directory for the kernel config and all build artifacts",
	)

	flagSet.Var(
		&f.arch,
		"arch",
		"kernel architecture: um, amd64, arm64, riscv64",
	)

	flagSet.UintVar(
		&f.jobs,
		"jobs",
		f.jobs,
		"number of parallel build jobs",
	)

	flagSet.UintVar(
		&f.timeout,
		"timeout",
		f.timeout,
		"maximum time in seconds the kernel may run",
	)

	flagSet.Var(
		&f.kunitconfig,
		"kunitconfig",
		"kconfig fragment the kernel config must satisfy "+
			"(default enables KUnit and its example tests)",
	)

	flagSet.StringArrayVar(
		&f.kernelArgs,
		"kernel_args",
		f.kernelArgs,
		"kernel command line parameter. Flag may be used more than once.",
	)

	flagSet.StringVar(
		&f.makeBin,
		"make_bin",
		f.makeBin,
		"make binary to use",
	)

	flagSet.BoolVar(
		&f.rawOutput,
		"raw_output",
		f.rawOutput,
		"print the kernel console output as is, without parsing",
	)

	flagSet.BoolVar(
		&f.strict,
		"strict",
		f.strict,
		"exit with code 1 if any test failed or crashed",
	)

	flagSet.BoolVar(
		&f.noColor,
		"no_color",
		f.noColor,
		"disable colored output",
	)

	flagSet.StringVar(
		&f.qemu.Executable,
		"qemu_bin",
		f.qemu.Executable,
		"QEMU binary to use (default depends on arch: qemu-system-*)",
	)

	flagSet.Var(
		&f.qemuArgs,
		"qemu_args",
		"extra QEMU argument as name=value. Flag may be used more than once.",
	)

	flagSet.StringVar(
		&f.qemu.Machine,
		"machine",
		f.qemu.Machine,
		"QEMU machine type to use (default depends on arch)",
	)

	flagSet.StringVar(
		&f.qemu.CPU,
		"cpu",
		f.qemu.CPU,
		"QEMU CPU type to use",
	)

	flagSet.Var(
		&f.qemu.TransportType,
		"transport",
		"console transport type: isa, pci, mmio (default depends on arch)",
	)

	flagSet.Var(
		f.memoryValue(),
		"memory",
		"memory (in MB) for the QEMU VM",
	)

	flagSet.Var(
		f.smpValue(),
		"smp",
		"number of CPUs for the QEMU VM",
	)

	flagSet.BoolVar(
		&f.qemu.NoKVM,
		"nokvm",
		f.qemu.NoKVM,
		"disable hardware support (default is enabled if present and arch "+
			"matches the host arch)",
	)

	flagSet.BoolVar(
		&f.qemu.Verbose,
		"verbose",
		f.qemu.Verbose,
		"enable verbose kernel output",
	)
}

func formatUint(value uint64) string {
	if value == 0 {
		return ""
	}

	return strconv.FormatUint(value, 10)
}
