// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package output implements channel-grouped console output for scripts.
//
// A [Console] tracks whether the cursor is at the start of a line and
// which channel wrote last. Consecutive writes on the same channel are
// joined on one line (progress dots, "done" suffixes); a write on a
// different channel, or an unchanneled write, first ends the pending
// line. [Console.Close] ends any pending line exactly once and is
// deferred by the script lifecycle so every exit path leaves a
// terminated line behind.
package output

import (
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Channel groups output fragments onto one line. Comparison is by
// value; [NoChannel] means the write is a complete line.
type Channel string

// NoChannel marks an unchanneled write.
const NoChannel Channel = ""

// Console writes script output to out and errors to errOut.
// A Console is used from a single goroutine.
type Console struct {
	out    io.Writer
	errOut io.Writer

	quiet       bool
	atLineStart bool
	lastChannel Channel

	errorStyle lipgloss.Style
	closeOnce  sync.Once
}

// NewConsole returns a Console at the start of a line. Error messages
// are styled bold red when errOut is a terminal with colour support;
// otherwise they are written plain.
func NewConsole(out, errOut io.Writer) *Console {
	renderer := lipgloss.NewRenderer(errOut, termenv.WithColorCache(true))
	return &Console{
		out:         out,
		errOut:      errOut,
		atLineStart: true,
		errorStyle:  renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
	}
}

// SetQuiet enables or disables suppression of non-error output.
func (c *Console) SetQuiet(quiet bool) {
	c.quiet = quiet
}

// Quiet reports whether non-error output is suppressed.
func (c *Console) Quiet() bool {
	return c.quiet
}

// AtLineStart reports whether the cursor is at the start of a line.
func (c *Console) AtLineStart() bool {
	return c.atLineStart
}

// Write is the channel-grouping primitive. It ignores quiet mode.
//
// If the cursor is mid-line and channel differs from the channel of the
// previous write, a line break is emitted first. An unchanneled write is
// terminated by a line break immediately.
func (c *Console) Write(text string, channel Channel) {
	if !c.atLineStart && channel != c.lastChannel {
		io.WriteString(c.out, "\n")
	}

	io.WriteString(c.out, text)

	c.atLineStart = false
	if channel == NoChannel {
		io.WriteString(c.out, "\n")
		c.atLineStart = true
	}
	c.lastChannel = channel
}

// Flush ends the pending line, if any.
func (c *Console) Flush() {
	if !c.atLineStart {
		io.WriteString(c.out, "\n")
		c.atLineStart = true
	}
}

// Close flushes pending output. Only the first call has any effect.
func (c *Console) Close() error {
	c.closeOnce.Do(c.Flush)
	return nil
}

// Output is the quiet-aware write used by scripts. Unchanneled text is
// written verbatim (the caller controls its newlines) after ending any
// pending channeled line. Channeled text loses one trailing newline and
// is grouped by [Console.Write].
func (c *Console) Output(text string, channel Channel) {
	if c.quiet {
		return
	}
	if channel == NoChannel {
		c.Flush()
		io.WriteString(c.out, text)
		return
	}
	c.Write(strings.TrimSuffix(text, "\n"), channel)
}

// Error writes message to the error stream regardless of quiet mode,
// after ending any pending line on the output stream. Each line is
// styled on its own so multi-line messages are not padded to a block.
func (c *Console) Error(message string) {
	c.Flush()
	lines := strings.Split(message, "\n")
	for i, line := range lines {
		lines[i] = c.errorStyle.Render(line)
	}
	io.WriteString(c.errOut, strings.Join(lines, "\n")+"\n")
}
