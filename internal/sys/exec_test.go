// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/aibor/kunitrun/internal/sys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestCommandContext(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var stdout bytes.Buffer

		cmd := sys.CommandContext(context.Background(), "sh", "-c", "echo out")
		cmd.Stdout = &stdout

		require.NoError(t, cmd.Run())
		assert.Equal(t, "out\n", stdout.String())
	})

	t.Run("killed with children", func(t *testing.T) {
		var stdout bytes.Buffer

		ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
		defer cancel()

		cmd := sys.CommandContext(ctx, "sh", "-c", "echo partial; sleep 30 & wait")
		cmd.Stdout = &stdout

		start := time.Now()
		err := cmd.Run()
		require.Error(t, err)

		assert.Less(t, time.Since(start), sys.WaitDelay, "killed fast")
		assert.Equal(t, "partial\n", stdout.String())
	})
}
