// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// WaitDelay is the time a command's output is still read after the command
// has been killed on context cancellation.
const WaitDelay = 2 * time.Second

// CommandContext returns an [exec.Cmd] that runs in its own process group.
//
// Once the context is done, the whole process group is killed, so child
// processes spawned by the command do not keep running and holding the
// output pipes open.
func CommandContext(ctx context.Context, name string, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return killProcessGroup(cmd.Process)
	}
	cmd.WaitDelay = WaitDelay

	return cmd
}

func killProcessGroup(process *os.Process) error {
	err := unix.Kill(-process.Pid, unix.SIGKILL)
	if errors.Is(err, unix.ESRCH) {
		return os.ErrProcessDone
	}

	return err //nolint:wrapcheck
}
