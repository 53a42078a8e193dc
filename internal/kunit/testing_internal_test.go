// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package kunit

import (
	"strings"
	"time"
)

var fixedTime = time.Date(2026, 1, 2, 13, 4, 5, 0, time.UTC)

func newTestPrinter(w *strings.Builder, colorize bool) *Printer {
	p := NewPrinter(w, colorize)
	p.Now = func() time.Time { return fixedTime }

	return p
}
