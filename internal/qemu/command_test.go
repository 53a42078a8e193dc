// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aibor/kunitrun/internal/qemu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func fakeQEMU(t *testing.T, script string) qemu.CommandSpec {
	t.Helper()

	path := filepath.Join(t.TempDir(), "qemu")
	err := os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755) //nolint:gosec
	require.NoError(t, err)

	return qemu.CommandSpec{
		Executable:    path,
		Kernel:        "/boot/vmlinuz",
		TransportType: qemu.TransportTypeISA,
		NoKVM:         true,
	}
}

func TestNewCommand(t *testing.T) {
	t.Run("invalid spec", func(t *testing.T) {
		_, err := qemu.NewCommand(qemu.CommandSpec{TransportType: "usb"})
		require.ErrorIs(t, err, &qemu.ArgumentError{})
	})

	t.Run("colliding extra args", func(t *testing.T) {
		_, err := qemu.NewCommand(qemu.CommandSpec{
			TransportType: qemu.TransportTypeISA,
			ExtraArgs:     []qemu.Argument{qemu.UniqueArg("kernel", "other")},
		})
		require.ErrorIs(t, err, qemu.ErrArgumentCollision)
	})

	t.Run("string", func(t *testing.T) {
		cmd, err := qemu.NewCommand(qemu.CommandSpec{
			Executable:    "qemu-system-x86_64",
			Kernel:        "/boot/bzImage",
			TransportType: qemu.TransportTypeISA,
			NoKVM:         true,
		})
		require.NoError(t, err)

		assert.Equal(t, "qemu-system-x86_64 -kernel /boot/bzImage "+
			"-chardev stdio,id=stdio -serial chardev:stdio "+
			"-display none -monitor none -no-reboot -nodefaults "+
			"-no-user-config -append console=ttyS0 panic=-1 "+
			"kunit_shutdown=reboot mitigations=off", cmd.String())
	})
}

func TestCommand_Run(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var stdout bytes.Buffer

		cmd, err := qemu.NewCommand(fakeQEMU(t, "echo booted"))
		require.NoError(t, err)

		err = cmd.Run(context.Background(), &stdout)
		require.NoError(t, err)
		assert.Equal(t, "booted\n", stdout.String())
	})

	t.Run("exit code", func(t *testing.T) {
		cmd, err := qemu.NewCommand(fakeQEMU(t, "exit 3"))
		require.NoError(t, err)

		err = cmd.Run(context.Background(), &bytes.Buffer{})

		var cmdErr *qemu.CommandError
		require.ErrorAs(t, err, &cmdErr)
		assert.Equal(t, 3, cmdErr.ExitCode)
	})

	t.Run("timeout keeps output", func(t *testing.T) {
		var stdout bytes.Buffer

		cmd, err := qemu.NewCommand(fakeQEMU(t, "echo booted; sleep 30"))
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
		defer cancel()

		err = cmd.Run(ctx, &stdout)
		require.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Equal(t, "booted\n", stdout.String())
	})
}
