// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aibor/kunitrun/internal/kunit"
	"golang.org/x/sync/errgroup"
)

// DefaultTimeout is the default time the kernel may run.
const DefaultTimeout = 300 * time.Second

// Configurer reconciles the kernel configuration.
type Configurer interface {
	Configure(ctx context.Context) error
}

// Builder builds the kernel.
type Builder interface {
	Build(ctx context.Context) error
}

// Runner runs the built kernel and writes its console output into stdout.
//
// It must stop once the context is done.
type Runner interface {
	Run(ctx context.Context, stdout io.Writer) error
}

// Harness runs all stages in order. A failing stage aborts the run.
type Harness struct {
	Configurer Configurer
	Builder    Builder
	Runner     Runner

	// Printer for progress messages and test records.
	Printer *kunit.Printer

	// Output is the destination of the console output if [Harness.Raw] is
	// set.
	Output io.Writer

	// Raw disables parsing. The console output is copied to
	// [Harness.Output] as is.
	Raw bool

	// Maximum time the kernel may run. [DefaultTimeout] is used if zero.
	Timeout time.Duration

	// Now returns the current time. [time.Now] is used if nil.
	Now func() time.Time
}

// Run runs all stages.
//
// Configure and build failures abort the run with a [StageError]. The
// returned [Result] is never nil and carries the timing of the stages run so
// far. An expired timeout or a canceled context during the run stage is not
// an error. The output produced until then is parsed and a missing end of
// the tests is reported as kernel crash.
func (h *Harness) Run(ctx context.Context) (*Result, error) {
	result := &Result{Status: StatusError}

	if h.Configurer == nil || h.Builder == nil || h.Runner == nil ||
		h.Printer == nil {
		return result, ErrCollaboratorMissing
	}

	start := h.now()

	defer func() {
		result.Timing.Total = h.now().Sub(start)
		h.Printer.Println(result.Timing.String())
	}()

	h.Printer.Println("Configuring KUnit kernel ...")

	err := h.timed(&result.Timing.Configure, func() error {
		return h.Configurer.Configure(ctx)
	})
	if err != nil {
		result.Status = StatusConfigFailure
		return result, &StageError{Stage: StageConfigure, Err: err}
	}

	h.Printer.Println("Building KUnit kernel ...")

	err = h.timed(&result.Timing.Build, func() error {
		return h.Builder.Build(ctx)
	})
	if err != nil {
		result.Status = StatusBuildFailure
		return result, &StageError{Stage: StageBuild, Err: err}
	}

	h.Printer.Println("Starting KUnit kernel ...")

	err = h.timed(&result.Timing.Run, func() error {
		return h.run(ctx, result)
	})
	if err != nil {
		return result, &StageError{Stage: StageParse, Err: err}
	}

	result.Status = StatusSuccess

	return result, nil
}

// run runs the kernel and parses its output concurrently.
//
// The runner writes into a pipe that is read by the parser. Once the parser
// is done, the rest of the output is discarded, so the runner never blocks.
func (h *Harness) run(ctx context.Context, result *Result) error {
	timeout := h.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	reader, writer := io.Pipe()

	var group errgroup.Group

	group.Go(func() error {
		result.RunErr = h.Runner.Run(runCtx, writer)
		return writer.Close()
	})

	group.Go(func() error {
		err := h.parse(reader, result)
		if err != nil {
			_ = reader.CloseWithError(err)
			return err
		}

		_, err = io.Copy(io.Discard, reader)

		return err //nolint:wrapcheck
	})

	err := group.Wait()

	switch {
	case result.RunErr == nil:
	case errors.Is(result.RunErr, context.DeadlineExceeded):
		slog.Warn("Kernel run timed out", slog.Duration("timeout", timeout))
	case errors.Is(result.RunErr, context.Canceled):
		slog.Warn("Kernel run canceled")
	default:
		slog.Warn("Kernel run failed", slog.Any("error", result.RunErr))
	}

	return err
}

func (h *Harness) parse(src io.Reader, result *Result) error {
	if h.Raw {
		output := h.Output
		if output == nil {
			output = io.Discard
		}

		err := kunit.Raw(output, src)
		if err != nil {
			return fmt.Errorf("raw output: %w", err)
		}

		return nil
	}

	aggregator, err := kunit.Parse(src, h.Printer)
	summary := aggregator.Summary()
	result.Summary = &summary

	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}

	return nil
}

func (h *Harness) timed(duration *time.Duration, fn func() error) error {
	start := h.now()
	err := fn()
	*duration = h.now().Sub(start)

	return err
}

func (h *Harness) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}

	return time.Now()
}
