// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"fmt"
	"io"

	"github.com/aibor/kunitrun/internal/scaffold"
	"github.com/spf13/cobra"
)

type newFlags struct {
	path            string
	namespacePrefix string
	printTestOnly   bool
}

func newNewCommand(cfg IO) *cobra.Command {
	var flags newFlags

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a skeleton KUnit test suite for a source file",
		Long: "Create a skeleton KUnit test suite next to the given source " +
			"file and print the Kconfig and Makefile entries for it.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			return newSuite(&flags, cfg.Stdout)
		},
	}

	cmd.Flags().StringVar(
		&flags.path,
		"path",
		flags.path,
		"path of the source file to test",
	)

	cmd.Flags().StringVar(
		&flags.namespacePrefix,
		"namespace_prefix",
		flags.namespacePrefix,
		"prefix of all test symbols (default derived from the file name)",
	)

	cmd.Flags().BoolVar(
		&flags.printTestOnly,
		"print_test_only",
		flags.printTestOnly,
		"only print the test source, do not create any file",
	)

	_ = cmd.MarkFlagRequired("path")

	return cmd
}

func newSuite(flags *newFlags, w io.Writer) error {
	suite, err := scaffold.NewSuite(flags.path, flags.namespacePrefix)
	if err != nil {
		return fmt.Errorf("new suite: %w", err)
	}

	if flags.printTestOnly {
		return suite.WriteTestFile(w) //nolint:wrapcheck
	}

	path, err := suite.Create()
	if err != nil {
		return err //nolint:wrapcheck
	}

	fmt.Fprintf(w, "Created %s\n\nAdd to the Kconfig file:\n\n", path)

	err = suite.WriteKconfig(w)
	if err != nil {
		return err //nolint:wrapcheck
	}

	fmt.Fprint(w, "\nAdd to the Makefile:\n\n")

	return suite.WriteMakefile(w) //nolint:wrapcheck
}
