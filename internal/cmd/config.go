// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

const localConfigFile = ".kunitrun.yaml"

// Config holds defaults for the run command flags. It is read from the local
// config file. Flags given on the command line take precedence.
type Config struct {
	BuildDir    string   `yaml:"build_dir"`
	Arch        string   `yaml:"arch"`
	Jobs        uint     `yaml:"jobs"`
	Timeout     uint     `yaml:"timeout"`
	Kunitconfig string   `yaml:"kunitconfig"`
	KernelArgs  []string `yaml:"kernel_args"`
	MakeBin     string   `yaml:"make_bin"`
	RawOutput   bool     `yaml:"raw_output"`
	Strict      bool     `yaml:"strict"`
	NoColor     bool     `yaml:"no_color"`

	QemuBin   string   `yaml:"qemu_bin"`
	QemuArgs  []string `yaml:"qemu_args"`
	Machine   string   `yaml:"machine"`
	CPU       string   `yaml:"cpu"`
	Transport string   `yaml:"transport"`
	Memory    uint64   `yaml:"memory"`
	SMP       uint64   `yaml:"smp"`
	NoKVM     bool     `yaml:"nokvm"`
	Verbose   bool     `yaml:"verbose"`
}

// LoadConfig reads the [Config] from the given file.
//
// A missing file is not an error. An empty [Config] is returned in that case.
// Environment variables may be used and are expanded with [os.ExpandEnv].
// Unknown keys are an error.
func LoadConfig(fsys fs.FS, file string) (*Config, error) {
	config := &Config{}

	content, err := fs.ReadFile(fsys, file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return config, nil
		}

		return nil, fmt.Errorf("read file: %w", err)
	}

	expanded := os.ExpandEnv(string(content))

	decoder := yaml.NewDecoder(bytes.NewBufferString(expanded))
	decoder.KnownFields(true)

	err = decoder.Decode(config)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, file, err)
	}

	return config, nil
}
