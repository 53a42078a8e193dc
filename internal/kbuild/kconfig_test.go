// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package kbuild_test

import (
	"strings"
	"testing"

	"github.com/aibor/kunitrun/internal/kbuild"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKconfig(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    kbuild.Kconfig
		expectedErr error
	}{
		{
			name:     "empty",
			expected: kbuild.Kconfig{},
		},
		{
			name: "set and not set",
			input: "#\n# Automatically generated file; DO NOT EDIT.\n#\n" +
				"CONFIG_KUNIT=y\n" +
				"# CONFIG_KUNIT_DEBUGFS is not set\n" +
				"\n" +
				"CONFIG_LOCALVERSION=\"-kunit\"\n",
			expected: kbuild.Kconfig{
				"CONFIG_KUNIT":         "y",
				"CONFIG_KUNIT_DEBUGFS": "n",
				"CONFIG_LOCALVERSION":  `"-kunit"`,
			},
		},
		{
			name:     "indented",
			input:    "  CONFIG_KUNIT=m  \n",
			expected: kbuild.Kconfig{"CONFIG_KUNIT": "m"},
		},
		{
			name:        "garbage",
			input:       "CONFIG_KUNIT=y\nKUNIT=y\n",
			expectedErr: kbuild.ErrKconfigLine,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual, err := kbuild.ParseKconfig(strings.NewReader(tt.input))
			require.ErrorIs(t, err, tt.expectedErr)

			assert.Equal(t, tt.expected, actual)
		})
	}
}

func TestKconfig_Missing(t *testing.T) {
	fragment := kbuild.Kconfig{
		"CONFIG_KUNIT":         "y",
		"CONFIG_KUNIT_TEST":    "y",
		"CONFIG_KUNIT_DEBUGFS": "n",
	}

	tests := []struct {
		name     string
		config   kbuild.Kconfig
		expected []string
	}{
		{
			name: "satisfied",
			config: kbuild.Kconfig{
				"CONFIG_KUNIT":      "y",
				"CONFIG_KUNIT_TEST": "y",
				"CONFIG_EXTRA":      "y",
			},
		},
		{
			name: "explicitly not set",
			config: kbuild.Kconfig{
				"CONFIG_KUNIT":         "y",
				"CONFIG_KUNIT_TEST":    "y",
				"CONFIG_KUNIT_DEBUGFS": "n",
			},
		},
		{
			name: "absent and wrong value",
			config: kbuild.Kconfig{
				"CONFIG_KUNIT":         "m",
				"CONFIG_KUNIT_DEBUGFS": "y",
			},
			expected: []string{
				"CONFIG_KUNIT=y",
				"# CONFIG_KUNIT_DEBUGFS is not set",
				"CONFIG_KUNIT_TEST=y",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, fragment.Missing(tt.config))
		})
	}
}

func TestKconfig_WriteTo(t *testing.T) {
	var actual strings.Builder

	kconfig := kbuild.Kconfig{
		"CONFIG_KUNIT_TEST":    "y",
		"CONFIG_KUNIT":         "y",
		"CONFIG_KUNIT_DEBUGFS": "n",
	}

	expected := "CONFIG_KUNIT=y\n" +
		"# CONFIG_KUNIT_DEBUGFS is not set\n" +
		"CONFIG_KUNIT_TEST=y\n"

	written, err := kconfig.WriteTo(&actual)
	require.NoError(t, err)

	assert.Equal(t, expected, actual.String())
	assert.Equal(t, int64(len(expected)), written)

	parsed, err := kbuild.ParseKconfig(strings.NewReader(actual.String()))
	require.NoError(t, err)
	assert.Equal(t, kconfig, parsed)
}
