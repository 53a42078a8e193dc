// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package kbuild_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aibor/kunitrun/internal/kbuild"
	"github.com/aibor/kunitrun/internal/sys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// writeScript writes an executable shell script. The script gets the build
// directory passed by "O=" as $builddir and logs all its arguments into
// "$builddir/make.log".
func writeScript(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "script")
	script := "#!/bin/sh\n" +
		"for arg; do case \"$arg\" in O=*) builddir=\"${arg#O=}\";; esac; done\n" +
		"echo \"$@\" >> \"$builddir/make.log\"\n" +
		body + "\n"

	err := os.WriteFile(path, []byte(script), 0o755) //nolint:gosec
	require.NoError(t, err)

	return path
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	err := os.WriteFile(path, []byte(content), 0o600)
	require.NoError(t, err)
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	return string(content)
}

func TestMake_Configure(t *testing.T) {
	t.Run("up to date", func(t *testing.T) {
		buildDir := t.TempDir()
		writeFile(t, filepath.Join(buildDir, ".config"),
			"CONFIG_KUNIT=y\nCONFIG_KUNIT_TEST=y\nCONFIG_KUNIT_EXAMPLE_TEST=y\nCONFIG_64BIT=y\n")

		m := kbuild.Make{
			Executable: "false",
			BuildDir:   buildDir,
			Arch:       sys.UM,
		}

		require.NoError(t, m.Configure(context.Background()))
		assert.NoFileExists(t, filepath.Join(buildDir, "make.log"))
	})

	t.Run("generates config", func(t *testing.T) {
		buildDir := filepath.Join(t.TempDir(), "build")
		kunitconfig := filepath.Join(t.TempDir(), ".kunitconfig")
		writeFile(t, kunitconfig, "CONFIG_KUNIT=y\nCONFIG_LIST_KUNIT_TEST=y\n")

		m := kbuild.Make{
			Executable:  writeScript(t, "echo CONFIG_64BIT=y >> \"$builddir/.config\""),
			BuildDir:    buildDir,
			Arch:        sys.AMD64,
			Kunitconfig: kunitconfig,
		}

		require.NoError(t, m.Configure(context.Background()))

		assert.Equal(t, "CONFIG_KUNIT=y\nCONFIG_LIST_KUNIT_TEST=y\nCONFIG_64BIT=y\n",
			readFile(t, m.ConfigPath()))

		absBuildDir, err := filepath.Abs(buildDir)
		require.NoError(t, err)
		assert.Equal(t, "ARCH=x86_64 O="+absBuildDir+" olddefconfig\n",
			readFile(t, filepath.Join(buildDir, "make.log")))
	})

	t.Run("option dropped", func(t *testing.T) {
		buildDir := t.TempDir()

		m := kbuild.Make{
			Executable: writeScript(t, "echo CONFIG_KUNIT=y > \"$builddir/.config\""),
			BuildDir:   buildDir,
			Arch:       sys.UM,
		}

		err := m.Configure(context.Background())

		var configErr *kbuild.ConfigError
		require.ErrorAs(t, err, &configErr)
		assert.Equal(t, []string{
			"CONFIG_KUNIT_EXAMPLE_TEST=y",
			"CONFIG_KUNIT_TEST=y",
		}, configErr.Missing)
	})

	t.Run("make fails", func(t *testing.T) {
		m := kbuild.Make{
			Executable: writeScript(t, "echo no rule >&2; exit 2"),
			BuildDir:   t.TempDir(),
			Arch:       sys.UM,
		}

		err := m.Configure(context.Background())

		var configErr *kbuild.ConfigError
		require.ErrorAs(t, err, &configErr)
		assert.Equal(t, "no rule\n", string(configErr.Output))
		assert.Empty(t, configErr.Missing)
	})

	t.Run("missing kunitconfig", func(t *testing.T) {
		m := kbuild.Make{
			BuildDir:    t.TempDir(),
			Arch:        sys.UM,
			Kunitconfig: filepath.Join(t.TempDir(), "absent"),
		}

		err := m.Configure(context.Background())
		require.ErrorIs(t, err, &kbuild.ConfigError{})
		require.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestMake_Build(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		buildDir := t.TempDir()

		m := kbuild.Make{
			Executable: writeScript(t, "echo built"),
			BuildDir:   buildDir,
			Arch:       sys.ARM64,
			Jobs:       8,
		}

		require.NoError(t, m.Build(context.Background()))
		assert.Equal(t, "ARCH=arm64 O="+buildDir+" --jobs=8\n",
			readFile(t, filepath.Join(buildDir, "make.log")))
	})

	t.Run("failure", func(t *testing.T) {
		m := kbuild.Make{
			Executable: writeScript(t, "echo 'error: undeclared'; exit 2"),
			BuildDir:   t.TempDir(),
			Arch:       sys.UM,
		}

		err := m.Build(context.Background())

		var buildErr *kbuild.BuildError
		require.ErrorAs(t, err, &buildErr)
		assert.Equal(t, "error: undeclared\n", string(buildErr.Output))
	})

	t.Run("unsupported arch", func(t *testing.T) {
		m := kbuild.Make{
			BuildDir: t.TempDir(),
			Arch:     sys.Arch("mips"),
		}

		err := m.Build(context.Background())
		require.ErrorIs(t, err, sys.ErrArchNotSupported)
	})
}

func TestMake_KernelImage(t *testing.T) {
	m := kbuild.Make{BuildDir: "/build", Arch: sys.RISCV64}

	actual, err := m.KernelImage()
	require.NoError(t, err)
	assert.Equal(t, "/build/arch/riscv/boot/Image", actual)
}
