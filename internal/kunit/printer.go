// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package kunit

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
)

const (
	timestampFormat = "15:04:05"
	dividerLength   = 30
)

// Divider separates sections of the record stream.
var Divider = strings.Repeat("=", dividerLength)

// Record tags of terminal test case records.
const (
	TagPassed = "[PASSED]"
	TagFailed = "[FAILED]"
	TagCrash  = "[CRASH]"
)

// Printer writes the human readable record stream.
//
// Every record is a single line prefixed with the wall clock time.
type Printer struct {
	// Now returns the time used for record timestamps. Defaults to
	// [time.Now].
	Now func() time.Time

	w      io.Writer
	green  *color.Color
	red    *color.Color
	yellow *color.Color
}

// NewPrinter creates a new [Printer] that writes to the given writer.
//
// If colorize is false, no ANSI color codes are written.
func NewPrinter(w io.Writer, colorize bool) *Printer {
	p := &Printer{
		Now:    time.Now,
		w:      w,
		green:  color.New(color.FgGreen),
		red:    color.New(color.FgRed),
		yellow: color.New(color.FgYellow),
	}

	for _, c := range []*color.Color{p.green, p.red, p.yellow} {
		if colorize {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	return p
}

// Println writes the message as a single record.
func (p *Printer) Println(msg string) {
	fmt.Fprintf(p.w, "[%s] %s\n", p.Now().Format(timestampFormat), msg)
}

// Printf formats and writes the message as a single record.
func (p *Printer) Printf(format string, args ...any) {
	p.Println(fmt.Sprintf(format, args...))
}

// Divider writes a divider record.
func (p *Printer) Divider() {
	p.Println(Divider)
}

// Passed writes the record for a passed test case.
func (p *Printer) Passed(name TestName) {
	p.Println(p.green.Sprint(TagPassed+" ") + string(name))
}

// Failed writes the record for a failed test case.
func (p *Printer) Failed(name TestName) {
	p.Println(p.red.Sprint(TagFailed + " " + string(name)))
}

// Crashed writes the record for a crashed test case.
func (p *Printer) Crashed(name TestName) {
	p.Println(p.yellow.Sprint(TagCrash + " " + string(name)))
}

// Warnings writes each line as a highlighted record.
func (p *Printer) Warnings(lines []string) {
	for _, line := range lines {
		p.Println(p.yellow.Sprint(line))
	}
}

// Lines writes each line as a plain record.
func (p *Printer) Lines(lines []string) {
	for _, line := range lines {
		p.Println(line)
	}
}

// Fatal writes the message as a highlighted error record.
func (p *Printer) Fatal(msg string) {
	p.Println(p.red.Sprint(msg))
}

// Summary writes the final summary record.
func (p *Printer) Summary(summary Summary) {
	c := p.red
	if summary.Success() {
		c = p.green
	}

	p.Println(c.Sprint(summary.String()))
}
