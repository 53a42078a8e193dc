// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"
	"time"

	"github.com/aibor/kunitrun/internal/exitcode"
	"github.com/aibor/kunitrun/internal/harness"
	"github.com/aibor/kunitrun/internal/kbuild"
	"github.com/aibor/kunitrun/internal/kunit"
	"github.com/aibor/kunitrun/internal/qemu"
	"github.com/aibor/kunitrun/internal/sys"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

const name = "kunitrun"

// Set on build.
var version = "dev"

// IO provides output details for the command.
type IO struct {
	Stdout io.Writer
	Stderr io.Writer
}

func newRootCommand(config *Config, cfg IO) (*cobra.Command, error) {
	var debugFlag bool

	root := &cobra.Command{
		Use:           name,
		Short:         "Configure, build and run KUnit kernels",
		Version:       getVersion(),
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			setupLogging(cfg.Stderr, debugFlag)
		},
	}

	root.SetOut(cfg.Stdout)
	root.SetErr(cfg.Stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ParseArgsError{msg: "flag parse", err: err}
	})

	root.PersistentFlags().BoolVar(
		&debugFlag,
		"debug",
		debugFlag,
		"enable debug output",
	)

	runCmd, err := newRunCommand(config, cfg)
	if err != nil {
		return nil, err
	}

	root.AddCommand(runCmd, newNewCommand(cfg))

	return root, nil
}

func newRunCommand(config *Config, cfg IO) (*cobra.Command, error) {
	flags, err := newRunFlags(config)
	if err != nil {
		return nil, err
	}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Configure, build and run the KUnit kernel and print the results",
		Long: "Configure the kernel in the build directory, build it, run it " +
			"and parse the test results from its console output. Must be " +
			"run from the kernel source tree.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			return run(cmd.Context(), flags, cfg)
		},
	}

	flags.register(cmd.Flags())

	return cmd, nil
}

func newHarness(flags *runFlags, cfg IO) (*harness.Harness, error) {
	builder := &kbuild.Make{
		Executable:  flags.makeBin,
		BuildDir:    string(flags.buildDir),
		Arch:        flags.arch,
		Jobs:        flags.jobs,
		Kunitconfig: string(flags.kunitconfig),
	}

	runner, err := newRunner(flags, builder, cfg)
	if err != nil {
		return nil, err
	}

	h := &harness.Harness{
		Configurer: builder,
		Builder:    builder,
		Runner:     runner,
		Printer:    kunit.NewPrinter(cfg.Stdout, colorize(cfg.Stdout, flags.noColor)),
		Output:     cfg.Stdout,
		Raw:        flags.rawOutput,
		Timeout:    time.Duration(flags.timeout) * time.Second,
	}

	return h, nil
}

func newRunner(
	flags *runFlags,
	builder *kbuild.Make,
	cfg IO,
) (harness.Runner, error) {
	if flags.arch == sys.UM {
		return kbuild.NewUML(string(flags.buildDir), flags.kernelArgs), nil
	}

	kernel, err := builder.KernelImage()
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	spec := flags.qemu
	spec.Kernel = kernel
	spec.KernelArgs = flags.kernelArgs
	spec.ExtraArgs = flags.qemuArgs

	err = spec.AddDefaultsFor(flags.arch)
	if err != nil {
		return nil, fmt.Errorf("qemu defaults: %w", err)
	}

	cmd, err := qemu.NewCommand(spec)
	if err != nil {
		return nil, fmt.Errorf("new qemu command: %w", err)
	}

	cmd.Stderr = cfg.Stderr

	return cmd, nil
}

func run(ctx context.Context, flags *runFlags, cfg IO) error {
	h, err := newHarness(flags, cfg)
	if err != nil {
		return err
	}

	result, err := h.Run(ctx)
	if err != nil {
		printStageOutput(err, cfg.Stderr)

		switch result.Status {
		case harness.StatusConfigFailure:
			return fmt.Errorf("%w: %w", exitcode.Error(exitcode.ConfigFailure), err)
		case harness.StatusBuildFailure:
			return fmt.Errorf("%w: %w", exitcode.Error(exitcode.BuildFailure), err)
		default:
			return err //nolint:wrapcheck
		}
	}

	if flags.strict && result.Summary != nil && !result.Summary.Success() {
		return exitcode.Error(exitcode.TestFailure)
	}

	return nil
}

// printStageOutput prints the captured make output of failed configure and
// build stages.
func printStageOutput(err error, w io.Writer) {
	var (
		configErr *kbuild.ConfigError
		buildErr  *kbuild.BuildError
	)

	switch {
	case errors.As(err, &configErr):
		_, _ = w.Write(configErr.Output)
	case errors.As(err, &buildErr):
		_, _ = w.Write(buildErr.Output)
	}
}

// colorize returns true if colored output should be written to w.
func colorize(w io.Writer, noColor bool) bool {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}

	file, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}

func handleError(err error) int {
	code, isExitErr := exitcode.From(err)

	switch {
	case err == nil:
	case isExitErr && code == exitcode.TestFailure:
		// Failed tests are already reported in the summary.
	default:
		slog.Error(err.Error())
	}

	return code
}

func getVersion() string {
	buildInfo, ok := debug.ReadBuildInfo()
	if ok && buildInfo.Main.Version != "" && buildInfo.Main.Version != "(devel)" {
		return buildInfo.Main.Version
	}

	return version
}

// Run is the main entry point for the CLI command. It returns the exit code.
func Run(ctx context.Context, args []string, cfg IO) int {
	setupLogging(cfg.Stderr, false)

	config, err := LoadConfig(os.DirFS("."), localConfigFile)
	if err != nil {
		return handleError(err)
	}

	root, err := newRootCommand(config, cfg)
	if err != nil {
		return handleError(err)
	}

	root.SetArgs(args)

	return handleError(root.ExecuteContext(ctx))
}
