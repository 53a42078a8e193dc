// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package scaffold

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"
)

var (
	// ErrInvalidPrefix is returned if the namespace prefix is not a valid C
	// identifier.
	ErrInvalidPrefix = errors.New("namespace prefix must be a C identifier")

	// ErrInvalidPath is returned if the source path has no usable base name.
	ErrInvalidPath = errors.New("invalid source path")
)

var identifierRegexp = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

const testFileTemplate = `// SPDX-License-Identifier: GPL-2.0
/*
 * KUnit tests for {{.Source}}
 */

#include <kunit/test.h>

static void {{.Prefix}}_example_test(struct kunit *test)
{
	KUNIT_EXPECT_EQ(test, 1, 1);
}

static struct kunit_case {{.Prefix}}_test_cases[] = {
	KUNIT_CASE({{.Prefix}}_example_test),
	{}
};

static struct kunit_suite {{.Prefix}}_test_suite = {
	.name = "{{.Prefix}}",
	.test_cases = {{.Prefix}}_test_cases,
};
kunit_test_suite({{.Prefix}}_test_suite);

MODULE_LICENSE("GPL");
`

const kconfigTemplate = `config {{.Symbol}}
	tristate "KUnit tests for {{.Source}}" if !KUNIT_ALL_TESTS
	depends on KUNIT
	default KUNIT_ALL_TESTS
	help
	  Builds the KUnit tests for {{.Source}}.

	  If unsure, say N.
`

const makefileTemplate = `obj-$(CONFIG_{{.Symbol}}) += {{.Object}}
`

var templates = template.Must(template.New("test").Parse(testFileTemplate))

func init() {
	template.Must(templates.New("kconfig").Parse(kconfigTemplate))
	template.Must(templates.New("makefile").Parse(makefileTemplate))
}

// Suite describes the test suite to generate.
type Suite struct {
	// Source is the path of the kernel source file that is tested.
	Source string

	// Prefix is the namespace prefix of all generated symbols. It is also the
	// name of the suite.
	Prefix string
}

// NewSuite creates a [Suite] for the given source file path.
//
// If prefix is empty, it is derived from the base name of the source file.
func NewSuite(source, prefix string) (*Suite, error) {
	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	if source == "" || base == "" || base == "." || base == string(filepath.Separator) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPath, source)
	}

	if prefix == "" {
		prefix = strings.NewReplacer("-", "_", ".", "_").Replace(base)
	}

	if !identifierRegexp.MatchString(prefix) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPrefix, prefix)
	}

	suite := &Suite{
		Source: source,
		Prefix: prefix,
	}

	return suite, nil
}

// Symbol is the Kconfig symbol of the test suite without "CONFIG_" prefix.
func (s *Suite) Symbol() string {
	return strings.ToUpper(s.Prefix) + "_KUNIT_TEST"
}

// TestFile is the path of the test source file. It is placed next to the
// tested source file.
func (s *Suite) TestFile() string {
	base := strings.TrimSuffix(filepath.Base(s.Source), filepath.Ext(s.Source))
	return filepath.Join(filepath.Dir(s.Source), base+"_kunit.c")
}

// Object is the name of the object file of the test suite as used in the
// kbuild Makefile.
func (s *Suite) Object() string {
	return strings.TrimSuffix(filepath.Base(s.TestFile()), ".c") + ".o"
}

// WriteTestFile writes the test source to w.
func (s *Suite) WriteTestFile(w io.Writer) error {
	return s.execute(w, "test")
}

// WriteKconfig writes the Kconfig entry to w.
func (s *Suite) WriteKconfig(w io.Writer) error {
	return s.execute(w, "kconfig")
}

// WriteMakefile writes the Makefile entry to w.
func (s *Suite) WriteMakefile(w io.Writer) error {
	return s.execute(w, "makefile")
}

// Create writes the test source file. It fails if the file already exists.
func (s *Suite) Create() (string, error) {
	path := s.TestFile()

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create test file: %w", err)
	}
	defer file.Close()

	err = s.WriteTestFile(file)
	if err != nil {
		return "", err
	}

	return path, nil
}

func (s *Suite) execute(w io.Writer, name string) error {
	data := map[string]string{
		"Source": s.Source,
		"Prefix": s.Prefix,
		"Symbol": s.Symbol(),
		"Object": s.Object(),
	}

	err := templates.ExecuteTemplate(w, name, data)
	if err != nil {
		return fmt.Errorf("%s template: %w", name, err)
	}

	return nil
}
