// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package script

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/bureau-foundation/scriptkit/lib/config"
	"github.com/bureau-foundation/scriptkit/lib/limits"
	"github.com/bureau-foundation/scriptkit/lib/option"
	"github.com/bureau-foundation/scriptkit/lib/output"
	"github.com/bureau-foundation/scriptkit/lib/process"
)

// StdinAll makes ReadStdin read until end of input.
const StdinAll = -1

// Context is the state a script sees while it runs: parsed input,
// output console, configuration and process environment. A Context is
// owned by one goroutine.
type Context struct {
	name       string
	script     Script
	definition *Definition
	parsed     *option.Parsed
	console    *output.Console
	settings   *config.Settings
	logger     *slog.Logger
	phase      Phase

	stdin  *bufio.Reader
	stdout io.Writer
	getenv func(string) string
	root   string

	catalog     *Catalog
	batchSize   int
	hasBatch    bool
	memoryLimit limits.MemoryLimit
}

// Name is the program name from argv[0].
func (c *Context) Name() string {
	return c.name
}

// Phase reports the lifecycle phase the script is in.
func (c *Context) Phase() Phase {
	return c.phase
}

// Logger is the structured diagnostic logger. It writes to stderr and
// is separate from the console.
func (c *Context) Logger() *slog.Logger {
	return c.logger
}

// Definition returns what the script declared.
func (c *Context) Definition() *Definition {
	return c.definition
}

// HasOption reports whether name was given on the command line or has
// had a default recorded by Option.
func (c *Context) HasOption(name string) bool {
	return c.parsed.Has(name)
}

// Option returns the value of name, or fallback when it is absent. The
// fallback is recorded, so later lookups of name return it too.
func (c *Context) Option(name, fallback string) string {
	return c.parsed.SetDefault(name, option.Scalar(fallback)).String()
}

// Value returns the raw value stored under name.
func (c *Context) Value(name string) (option.Value, bool) {
	return c.parsed.Value(name)
}

// Values returns every value given for a repeatable option in order.
// A non-repeatable option yields at most one element.
func (c *Context) Values(name string) []string {
	value, _ := c.parsed.Value(name)
	return value.Strings()
}

// Ordered returns every option occurrence in command-line order.
func (c *Context) Ordered() []option.Occurrence {
	return append([]option.Occurrence(nil), c.parsed.Ordered...)
}

// HasArg reports whether positional argument index was given.
func (c *Context) HasArg(index int) bool {
	return c.parsed.HasArg(index)
}

// Arg returns positional argument index, or fallback.
func (c *Context) Arg(index int, fallback string) string {
	return c.parsed.Arg(index, fallback)
}

// Args returns all positional arguments.
func (c *Context) Args() []string {
	return append([]string(nil), c.parsed.Args...)
}

// Quiet reports whether --quiet was given.
func (c *Context) Quiet() bool {
	return c.console.Quiet()
}

// BatchSize returns the effective batch size and whether the script has
// one at all.
func (c *Context) BatchSize() (int, bool) {
	return c.batchSize, c.hasBatch
}

// MemoryLimit returns the limit the lifecycle applied.
func (c *Context) MemoryLimit() limits.MemoryLimit {
	return c.memoryLimit
}

// Output writes text to the console. See [output.Console.Output].
func (c *Context) Output(text string, channel output.Channel) {
	c.console.Output(text, channel)
}

// Outputf formats and writes unchanneled text.
func (c *Context) Outputf(format string, args ...any) {
	c.console.Output(fmt.Sprintf(format, args...), output.NoChannel)
}

// Error writes message to stderr and returns an error that makes the
// lifecycle exit with code. A code of 0 reports the message and returns
// nil so the script can carry on.
func (c *Context) Error(message string, code int) error {
	c.console.Error(message)
	err := process.Exit(code)
	if err != nil {
		c.logger.Debug("script requested exit", "code", code)
	}
	return err
}

// Config looks up path in the loaded settings. See [config.Settings.Get].
func (c *Context) Config(path string, fallback any) any {
	return c.settings.Get(path, fallback)
}

// Settings returns the loaded settings. Before ConfigLoaded they are
// empty.
func (c *Context) Settings() *config.Settings {
	return c.settings
}

// LoadConfig loads the settings file from the --conf directory or from
// the default directory under the installation root. It reports false
// without error when settings are already loaded.
func (c *Context) LoadConfig() (bool, error) {
	if !c.settings.Empty() {
		return false, nil
	}

	dir := c.parsed.String(ConfOption, "")
	if dir == "" {
		dir = config.DefaultDir(c.root)
	}

	settings, err := config.Load(dir, config.WithVariables(map[string]string{config.RootEnv: c.root}, c.getenv))
	if err != nil {
		return false, err
	}
	c.settings = settings
	c.logger.Debug("settings loaded", "path", settings.Path())
	return true, nil
}

// Stdin returns standard input.
func (c *Context) Stdin() io.Reader {
	return c.stdin
}

// ReadStdin reads from standard input. With [StdinAll] it returns
// everything up to end of input; with a positive limit it reads one
// line of at most limit-1 bytes. The result has trailing whitespace
// removed. End of input with nothing read returns io.EOF.
func (c *Context) ReadStdin(limit int) (string, error) {
	if limit == StdinAll {
		data, err := io.ReadAll(c.stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return strings.TrimRight(string(data), " \t\r\n"), nil
	}
	if limit <= 1 {
		return "", fmt.Errorf("read limit must be greater than 1 or StdinAll, got %d", limit)
	}

	var line strings.Builder
	for line.Len() < limit-1 {
		b, err := c.stdin.ReadByte()
		if errors.Is(err, io.EOF) {
			if line.Len() == 0 {
				return "", io.EOF
			}
			break
		}
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		line.WriteByte(b)
		if b == '\n' {
			break
		}
	}
	return strings.TrimRight(line.String(), " \t\r\n"), nil
}

// RunChild looks name up in the catalog and runs it with this context's
// parsed input.
func (c *Context) RunChild(name string) error {
	if c.catalog == nil {
		return &ChildSpawnError{Name: name}
	}
	child, err := c.catalog.Lookup(name)
	if err != nil {
		return err
	}
	return c.RunScript(child)
}

// RunScript runs child with a context built from this one. The child's
// declarations are collected for its batch size default but the parent's
// parsed input is used as is.
func (c *Context) RunScript(child Script) error {
	childContext, err := c.derive(child)
	if err != nil {
		return err
	}
	c.logger.Debug("running child script", "script", fmt.Sprintf("%T", child))
	return child.Run(childContext)
}

func (c *Context) derive(child Script) (*Context, error) {
	definition := newDefinition(option.NewRegistry())
	if err := registerDefaults(definition.registry); err != nil {
		return nil, err
	}
	if declarer, ok := child.(Declarer); ok {
		if err := declarer.DeclareOptions(definition); err != nil {
			return nil, fmt.Errorf("declaring child options: %w", err)
		}
	}
	definition.registry.Freeze()

	derived := *c
	derived.script = child
	derived.definition = definition
	derived.parsed = c.parsed.Clone()
	derived.logger = c.logger.With("child", fmt.Sprintf("%T", child))
	if err := derived.loadSpecialVars(); err != nil {
		return nil, err
	}
	return &derived, nil
}

// loadSpecialVars derives quiet and batch size from parsed options.
func (c *Context) loadSpecialVars() error {
	if c.parsed.Has(QuietOption) {
		c.console.SetQuiet(true)
	}

	c.batchSize, c.hasBatch = c.definition.batchSize, c.definition.batchSize > 0
	if value, given := c.parsed.Value(BatchSizeOption); given {
		size, err := strconv.Atoi(value.String())
		if err != nil || size <= 0 {
			return fmt.Errorf("--%s must be a positive integer, got %q", BatchSizeOption, value.String())
		}
		c.batchSize, c.hasBatch = size, true
	}
	return nil
}
