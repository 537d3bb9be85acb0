// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package script

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"

	"github.com/bureau-foundation/scriptkit/lib/config"
	"github.com/bureau-foundation/scriptkit/lib/help"
	"github.com/bureau-foundation/scriptkit/lib/limits"
	"github.com/bureau-foundation/scriptkit/lib/option"
	"github.com/bureau-foundation/scriptkit/lib/output"
	"github.com/bureau-foundation/scriptkit/lib/process"
)

// Runner drives scripts through the lifecycle. The zero value is not
// usable; NewRunner wires the process's standard streams, environment
// and limits.
type Runner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	Getenv  func(string) string
	Environ func() []string

	// Logger receives lifecycle diagnostics. Nil means NewLogger on
	// Stderr at the level from LogLevelEnv.
	Logger *slog.Logger

	Limiter limits.Limiter

	// Catalog resolves child script names for Context.RunChild.
	Catalog *Catalog

	// HelpWidth overrides help.DefaultWidth when positive.
	HelpWidth int

	// AllowUnknownOptions keeps unrecognised options instead of failing.
	AllowUnknownOptions bool
}

// NewRunner returns a Runner bound to the running process.
func NewRunner() *Runner {
	return &Runner{
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Getenv:  os.Getenv,
		Environ: os.Environ,
		Limiter: limits.System{},
	}
}

// Main runs script with os.Args and exits with its status.
func Main(script Script) {
	os.Exit(NewRunner().Run(script, os.Args))
}

// Run executes script with argv (argv[0] is the program name) and
// returns the exit status. The console is closed on every path, so a
// partially written channeled line is always terminated.
func (r *Runner) Run(script Script, argv []string) (status int) {
	ctx := r.newContext(script)
	defer ctx.console.Close()
	defer func() {
		if recovered := recover(); recovered != nil {
			ctx.logger.Error("script panicked",
				"phase", ctx.phase.String(),
				"panic", fmt.Sprint(recovered),
				"stack", string(debug.Stack()),
			)
			ctx.console.Error(fmt.Sprintf("ERROR: script panicked: %v", recovered))
			status = 1
		}
	}()

	err := r.execute(ctx, argv)
	status = process.Code(err)
	ctx.logger.Debug("script finished", "phase", ctx.phase.String(), "status", status)
	return status
}

func (r *Runner) newContext(script Script) *Context {
	getenv := r.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	logger := r.Logger
	if logger == nil {
		logger = NewLogger(r.Stderr, LevelFromEnv(getenv))
	}
	stdin := r.Stdin
	if stdin == nil {
		stdin = eofReader{}
	}

	var registryOptions []option.RegistryOption
	if r.AllowUnknownOptions {
		registryOptions = append(registryOptions, option.AllowUnknown())
	}

	return &Context{
		script:      script,
		definition:  newDefinition(option.NewRegistry(registryOptions...)),
		parsed:      option.NewParsed(),
		console:     output.NewConsole(r.Stdout, r.Stderr),
		settings:    config.New(nil),
		logger:      logger,
		phase:       PhaseCreated,
		stdin:       bufio.NewReader(stdin),
		stdout:      r.Stdout,
		getenv:      getenv,
		catalog:     r.Catalog,
		memoryLimit: limits.MemoryLimit{Mode: limits.Untouched},
	}
}

type eofReader struct{}

func (eofReader) Read([]byte) (int, error) { return 0, io.EOF }

func (r *Runner) execute(ctx *Context, argv []string) error {
	steps := []struct {
		phase Phase
		run   func() error
	}{
		{PhaseSetup, func() error { return r.setup(ctx, argv) }},
		{PhaseArgsLoaded, func() error { return r.loadArgs(ctx, argv[1:]) }},
		{PhaseHelpChecked, func() error { return r.checkHelp(ctx) }},
		{PhaseLimitsAdjusted, func() error { return r.adjustLimits(ctx) }},
		{PhaseConfigLoaded, func() error { _, err := ctx.LoadConfig(); return err }},
		{PhaseFinalSetup, func() error { return r.finalSetup(ctx) }},
		{PhaseExecuting, func() error { return ctx.script.Run(ctx) }},
		{PhaseDone, func() error { return r.done(ctx) }},
	}

	for _, step := range steps {
		ctx.phase = step.phase
		ctx.logger.Debug("entering phase", "phase", step.phase.String())
		if err := step.run(); err != nil {
			return r.fail(ctx, err)
		}
	}
	return nil
}

// fail reports err and converts it into an exit error. Errors that
// already carry an exit code have been reported by whoever built them.
func (r *Runner) fail(ctx *Context, err error) error {
	var exit *process.ExitError
	if errors.As(err, &exit) {
		return err
	}

	ctx.logger.Debug("phase failed", "phase", ctx.phase.String(), "error", err)
	var environment *EnvironmentError
	if errors.As(err, &environment) {
		ctx.console.Error(err.Error())
	} else {
		ctx.console.Error("ERROR: " + err.Error())
	}
	return process.Exit(1)
}

func (r *Runner) setup(ctx *Context, argv []string) error {
	if ctx.getenv("REQUEST_METHOD") != "" || ctx.getenv("GATEWAY_INTERFACE") != "" {
		return &EnvironmentError{Reason: "this script must be run from the command line"}
	}
	if len(argv) == 0 {
		return &EnvironmentError{Reason: "cannot get command line arguments: argv is empty"}
	}
	ctx.name = argv[0]

	root, err := config.InstallRoot(ctx.getenv)
	if err != nil {
		return &EnvironmentError{Reason: "cannot determine installation root", Err: err}
	}
	ctx.root = root
	ctx.logger = ctx.logger.With("script", ctx.name)
	return nil
}

func (r *Runner) loadArgs(ctx *Context, tokens []string) error {
	registry := ctx.definition.registry
	if err := registerDefaults(registry); err != nil {
		return err
	}
	if declarer, ok := ctx.script.(Declarer); ok {
		if err := declarer.DeclareOptions(ctx.definition); err != nil {
			return fmt.Errorf("declaring options: %w", err)
		}
	}

	parsed, err := option.Parse(registry, tokens)
	if err != nil {
		return r.usageError(ctx, err)
	}
	ctx.parsed = parsed

	if err := ctx.loadSpecialVars(); err != nil {
		return r.usageError(ctx, err)
	}

	// --help is handled in the next phase and wins over missing
	// required input.
	if parsed.Has(HelpOption) {
		return nil
	}
	if err := option.Validate(registry, parsed); err != nil {
		var validation *option.ValidationError
		if errors.As(err, &validation) {
			for _, problem := range validation.Problems {
				ctx.console.Error(problem.Error())
			}
		} else {
			ctx.console.Error("ERROR: " + err.Error())
		}
		r.showHelp(ctx)
		return process.Exit(1)
	}
	return nil
}

// usageError prints err followed by the help text.
func (r *Runner) usageError(ctx *Context, err error) error {
	ctx.console.Error("ERROR: " + err.Error())
	r.showHelp(ctx)
	return process.Exit(1)
}

func (r *Runner) checkHelp(ctx *Context) error {
	if !ctx.parsed.Has(HelpOption) {
		return nil
	}
	r.showHelp(ctx)
	return process.Exit(1)
}

// showHelp prints the help text even when --quiet was given.
func (r *Runner) showHelp(ctx *Context) {
	ctx.console.SetQuiet(false)
	ctx.console.Output(help.Render(help.Page{
		Program:     ctx.name,
		Description: ctx.definition.description,
		Registry:    ctx.definition.registry,
		Width:       r.HelpWidth,
	}), output.NoChannel)
}

func (r *Runner) adjustLimits(ctx *Context) error {
	limit, err := limits.ParseMemoryLimit(ctx.Option(MemoryLimitOption, "max"))
	if err != nil {
		return err
	}
	ctx.memoryLimit = limit
	r.applyLimits(ctx)
	return nil
}

func (r *Runner) applyLimits(ctx *Context) {
	limiter := r.Limiter
	if limiter == nil {
		limiter = limits.System{}
	}
	limits.ApplyMemory(limiter, ctx.memoryLimit)
	if err := limiter.RemoveTimeLimit(); err != nil {
		ctx.logger.Warn("cannot raise CPU time limit", "error", err)
	}
	ctx.logger.Debug("limits applied", "memory_limit", ctx.memoryLimit.String())
}

func (r *Runner) finalSetup(ctx *Context) error {
	if initializer, ok := ctx.script.(Initializer); ok {
		if err := initializer.AfterFinalSetup(ctx); err != nil {
			return err
		}
	}
	r.applyLimits(ctx)
	return nil
}

func (r *Runner) done(ctx *Context) error {
	if !ctx.parsed.Has(GlobalsOption) {
		return nil
	}
	environ := r.Environ
	if environ == nil {
		environ = os.Environ
	}
	ctx.console.Flush()
	return ctx.writeDump(ctx.stdout, environ())
}
