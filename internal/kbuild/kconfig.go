// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package kbuild

import (
	"bufio"
	"fmt"
	"io"
	"maps"
	"os"
	"regexp"
	"slices"
	"strings"
)

const notSet = "n"

var (
	kconfigSetRegexp    = regexp.MustCompile(`^(CONFIG_[A-Za-z0-9_]+)=(.*)$`)
	kconfigNotSetRegexp = regexp.MustCompile(`^# (CONFIG_[A-Za-z0-9_]+) is not set$`)
)

// DefaultKunitconfig is used if no kunitconfig file is given. It enables
// KUnit with its own tests and the example tests.
const DefaultKunitconfig = `CONFIG_KUNIT=y
CONFIG_KUNIT_TEST=y
CONFIG_KUNIT_EXAMPLE_TEST=y
`

// Kconfig maps kconfig option names to their values. Options that are
// explicitly not set have the value "n".
type Kconfig map[string]string

// ParseKconfig parses a kconfig file or fragment.
//
// Lines may be "CONFIG_FOO=value" or "# CONFIG_FOO is not set". Other comments
// and empty lines are ignored.
func ParseKconfig(r io.Reader) (Kconfig, error) {
	kconfig := Kconfig{}
	scanner := bufio.NewScanner(r)

	for lineNum := 1; scanner.Scan(); lineNum++ {
		line := strings.TrimSpace(scanner.Text())

		if match := kconfigNotSetRegexp.FindStringSubmatch(line); match != nil {
			kconfig[match[1]] = notSet
			continue
		}

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		match := kconfigSetRegexp.FindStringSubmatch(line)
		if match == nil {
			return nil, fmt.Errorf("%w %d: %s", ErrKconfigLine, lineNum, line)
		}

		kconfig[match[1]] = match[2]
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read kconfig: %w", err)
	}

	return kconfig, nil
}

// ReadKconfig parses the kconfig file at the given path.
func ReadKconfig(path string) (Kconfig, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	defer file.Close()

	return ParseKconfig(file)
}

// Missing returns all options of k that are not satisfied by other, in
// lexical order.
//
// Options absent in other count as not set.
func (k Kconfig) Missing(other Kconfig) []string {
	var missing []string

	for _, name := range slices.Sorted(maps.Keys(k)) {
		value, exists := other[name]
		if !exists {
			value = notSet
		}

		if value != k[name] {
			missing = append(missing, k.entry(name))
		}
	}

	return missing
}

// WriteTo writes the options in kconfig file format in lexical order.
//
// It implements [io.WriterTo].
func (k Kconfig) WriteTo(w io.Writer) (int64, error) {
	var written int64

	for _, name := range slices.Sorted(maps.Keys(k)) {
		n, err := fmt.Fprintln(w, k.entry(name))
		written += int64(n)

		if err != nil {
			return written, err //nolint:wrapcheck
		}
	}

	return written, nil
}

func (k Kconfig) entry(name string) string {
	if k[name] == notSet {
		return "# " + name + " is not set"
	}

	return name + "=" + k[name]
}
