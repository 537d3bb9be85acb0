// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package script

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bureau-foundation/scriptkit/lib/option"
	"github.com/bureau-foundation/scriptkit/lib/output"
)

// testScript lets each test supply only the hooks it cares about.
type testScript struct {
	declare    func(*Definition) error
	afterSetup func(*Context) error
	run        func(*Context) error
	ran        bool
}

func (s *testScript) DeclareOptions(def *Definition) error {
	if s.declare == nil {
		return nil
	}
	return s.declare(def)
}

func (s *testScript) AfterFinalSetup(ctx *Context) error {
	if s.afterSetup == nil {
		return nil
	}
	return s.afterSetup(ctx)
}

func (s *testScript) Run(ctx *Context) error {
	s.ran = true
	if s.run == nil {
		return nil
	}
	return s.run(ctx)
}

type recordingLimiter struct {
	memory      []int64
	timeRemoved int
}

func (r *recordingLimiter) SetMemoryLimit(bytes int64) int64 {
	r.memory = append(r.memory, bytes)
	return math.MaxInt64
}

func (r *recordingLimiter) RemoveTimeLimit() error {
	r.timeRemoved++
	return nil
}

type harness struct {
	runner  *Runner
	stdout  *bytes.Buffer
	stderr  *bytes.Buffer
	limiter *recordingLimiter
	env     map[string]string
	root    string
}

// newHarness returns a runner whose installation root holds a minimal
// settings file, so scripts load configuration without --conf.
func newHarness(t *testing.T) *harness {
	t.Helper()
	root := t.TempDir()
	writeSettings(t, filepath.Join(root, "config"), "site: example\ndb:\n  host: localhost\n")

	h := &harness{
		stdout:  &bytes.Buffer{},
		stderr:  &bytes.Buffer{},
		limiter: &recordingLimiter{},
		env:     map[string]string{"SCRIPTKIT_ROOT": root},
		root:    root,
	}
	h.runner = &Runner{
		Stdin:   strings.NewReader(""),
		Stdout:  h.stdout,
		Stderr:  h.stderr,
		Getenv:  func(name string) string { return h.env[name] },
		Environ: func() []string { return []string{"SCRIPTKIT_ROOT=" + root} },
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Limiter: h.limiter,
	}
	return h
}

func writeSettings(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "settings.yaml"), []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func greeter() *testScript {
	return &testScript{
		declare: func(def *Definition) error {
			def.Describe("Greets someone.")
			if err := def.AddOption(option.OptionSpec{
				Name:        "name",
				Description: "Who to greet",
				Required:    true,
				TakesValue:  true,
				Short:       'n',
			}); err != nil {
				return err
			}
			return def.AddArg(option.ArgSpec{Name: "target", Description: "Optional target"})
		},
	}
}

func TestRun_Success(t *testing.T) {
	h := newHarness(t)
	script := greeter()
	var (
		name  string
		quiet bool
		arg   string
		site  any
	)
	script.run = func(ctx *Context) error {
		name = ctx.Option("name", "")
		quiet = ctx.Quiet()
		arg = ctx.Arg(0, "")
		site = ctx.Config("site", nil)
		ctx.Output("hello "+name+"!\n", output.NoChannel)
		return nil
	}

	status := h.runner.Run(script, []string{"greet", "--name=Ada", "-q", "extra"})
	if status != 0 {
		t.Fatalf("status = %d, stderr = %q", status, h.stderr.String())
	}
	if !script.ran {
		t.Fatal("script did not run")
	}
	if name != "Ada" || !quiet || arg != "extra" {
		t.Errorf("name=%q quiet=%v arg=%q, want Ada true extra", name, quiet, arg)
	}
	if site != "example" {
		t.Errorf("Config(site) = %v, want example", site)
	}
	if h.stdout.Len() != 0 {
		t.Errorf("quiet run wrote %q to stdout", h.stdout.String())
	}
}

func TestRun_Help(t *testing.T) {
	h := newHarness(t)
	script := greeter()

	// --help wins over the missing required --name and over --quiet.
	status := h.runner.Run(script, []string{"greet", "--help", "-q"})
	if status != 1 {
		t.Errorf("status = %d, want 1", status)
	}
	if script.ran {
		t.Error("script ran despite --help")
	}
	out := h.stdout.String()
	for _, want := range []string{"Greets someone.", "Usage: greet", "--name", "[target]", "Generic parameters:"} {
		if !strings.Contains(out, want) {
			t.Errorf("help output missing %q:\n%s", want, out)
		}
	}
	if h.stderr.Len() != 0 {
		t.Errorf("help wrote errors: %q", h.stderr.String())
	}
}

func TestRun_MissingRequiredOption(t *testing.T) {
	h := newHarness(t)
	script := greeter()

	status := h.runner.Run(script, []string{"greet"})
	if status != 1 {
		t.Errorf("status = %d, want 1", status)
	}
	if script.ran {
		t.Error("script ran without required option")
	}
	if !strings.Contains(h.stderr.String(), "Param name required!") {
		t.Errorf("stderr = %q, want required message", h.stderr.String())
	}
	if !strings.Contains(h.stdout.String(), "Usage:") {
		t.Errorf("stdout = %q, want usage text", h.stdout.String())
	}
}

func TestRun_ParseErrors(t *testing.T) {
	tests := []struct {
		name string
		argv []string
		want string
	}{
		{"given twice", []string{"greet", "--name=a", "--name=b"}, "given twice"},
		{"missing value", []string{"greet", "--name"}, "needs a value"},
		{"unknown option", []string{"greet", "--nmae=Ada"}, "--name"},
		{"bad batch size", []string{"greet", "--name=Ada", "--batch-size=lots"}, "positive integer"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			h := newHarness(t)
			script := greeter()
			inner := script.declare
			script.declare = func(def *Definition) error {
				if err := inner(def); err != nil {
					return err
				}
				return def.SetBatchSize(10)
			}

			status := h.runner.Run(script, test.argv)
			if status != 1 {
				t.Errorf("status = %d, want 1", status)
			}
			if script.ran {
				t.Error("script ran after parse error")
			}
			if !strings.Contains(h.stderr.String(), test.want) {
				t.Errorf("stderr = %q, want %q", h.stderr.String(), test.want)
			}
			if !strings.Contains(h.stdout.String(), "Usage:") {
				t.Errorf("stdout = %q, want usage text", h.stdout.String())
			}
		})
	}
}

func TestRun_EnvironmentErrors(t *testing.T) {
	t.Run("web context", func(t *testing.T) {
		h := newHarness(t)
		h.env["REQUEST_METHOD"] = "GET"
		script := &testScript{}
		if status := h.runner.Run(script, []string{"web"}); status != 1 {
			t.Errorf("status = %d, want 1", status)
		}
		if script.ran {
			t.Error("script ran in web context")
		}
		if !strings.Contains(h.stderr.String(), "command line") {
			t.Errorf("stderr = %q", h.stderr.String())
		}
	})

	t.Run("empty argv", func(t *testing.T) {
		h := newHarness(t)
		script := &testScript{}
		if status := h.runner.Run(script, nil); status != 1 {
			t.Errorf("status = %d, want 1", status)
		}
		if script.ran {
			t.Error("script ran without argv")
		}
	})
}

func TestRun_ConfigErrors(t *testing.T) {
	h := newHarness(t)
	script := &testScript{}
	empty := t.TempDir()

	status := h.runner.Run(script, []string{"cfg", "--conf", empty})
	if status != 1 {
		t.Errorf("status = %d, want 1", status)
	}
	if script.ran {
		t.Error("script ran without configuration")
	}
	if !strings.Contains(h.stderr.String(), "--conf") {
		t.Errorf("stderr = %q, want a hint about --conf", h.stderr.String())
	}
}

func TestRun_ConfOverridesDefaultDirectory(t *testing.T) {
	h := newHarness(t)
	dir := t.TempDir()
	writeSettings(t, dir, "site: override\nroot: ${SCRIPTKIT_ROOT}\n")

	var site, root any
	script := &testScript{run: func(ctx *Context) error {
		site = ctx.Config("site", nil)
		root = ctx.Config("root", nil)
		return nil
	}}
	if status := h.runner.Run(script, []string{"cfg", "--conf", dir}); status != 0 {
		t.Fatalf("status = %d, stderr = %q", status, h.stderr.String())
	}
	if site != "override" {
		t.Errorf("site = %v, want override", site)
	}
	if root != h.root {
		t.Errorf("root = %v, want %s", root, h.root)
	}
}

func TestRun_SettingsExpandFromRunnerEnvironment(t *testing.T) {
	t.Setenv("SCRIPTKIT_SITE_NAME", "from-host")
	h := newHarness(t)
	h.env["SCRIPTKIT_SITE_NAME"] = "from-runner"
	dir := t.TempDir()
	writeSettings(t, dir, "site: ${SCRIPTKIT_SITE_NAME}\nowner: ${SCRIPTKIT_OWNER:-nobody}\n")
	t.Setenv("SCRIPTKIT_OWNER", "host-owner")

	var site, owner any
	script := &testScript{run: func(ctx *Context) error {
		site = ctx.Config("site", nil)
		owner = ctx.Config("owner", nil)
		return nil
	}}
	if status := h.runner.Run(script, []string{"cfg", "--conf", dir}); status != 0 {
		t.Fatalf("status = %d, stderr = %q", status, h.stderr.String())
	}
	if site != "from-runner" {
		t.Errorf("site = %v, want from-runner", site)
	}
	if owner != "nobody" {
		t.Errorf("owner = %v, want the default rather than the host environment", owner)
	}
}

func TestRun_PendingChannelLineIsTerminated(t *testing.T) {
	tests := []struct {
		name   string
		run    func(*Context) error
		status int
	}{
		{"success", func(ctx *Context) error {
			ctx.Output("progress 1", "progress")
			ctx.Output("progress 2", "progress")
			return nil
		}, 0},
		{"error", func(ctx *Context) error {
			ctx.Output("progress 1", "progress")
			return errors.New("boom")
		}, 1},
		{"panic", func(ctx *Context) error {
			ctx.Output("progress 1", "progress")
			panic("kaboom")
		}, 1},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			h := newHarness(t)
			status := h.runner.Run(&testScript{run: test.run}, []string{"chan"})
			if status != test.status {
				t.Errorf("status = %d, want %d", status, test.status)
			}
			out := h.stdout.String()
			if !strings.HasSuffix(out, "\n") {
				t.Errorf("stdout %q does not end with a newline", out)
			}
			if strings.Count(out, "\n") != 1 {
				t.Errorf("stdout %q should hold exactly one line", out)
			}
		})
	}
}

func TestRun_ErrorsAndExitCodes(t *testing.T) {
	t.Run("script error", func(t *testing.T) {
		h := newHarness(t)
		status := h.runner.Run(&testScript{run: func(*Context) error {
			return errors.New("database unreachable")
		}}, []string{"fail"})
		if status != 1 {
			t.Errorf("status = %d, want 1", status)
		}
		if !strings.Contains(h.stderr.String(), "ERROR: database unreachable") {
			t.Errorf("stderr = %q", h.stderr.String())
		}
	})

	t.Run("explicit code", func(t *testing.T) {
		h := newHarness(t)
		status := h.runner.Run(&testScript{run: func(ctx *Context) error {
			return ctx.Error("nothing to do", 3)
		}}, []string{"fail"})
		if status != 3 {
			t.Errorf("status = %d, want 3", status)
		}
		if got := h.stderr.String(); strings.Count(got, "nothing to do") != 1 {
			t.Errorf("stderr = %q, want the message exactly once", got)
		}
	})

	t.Run("code zero continues", func(t *testing.T) {
		h := newHarness(t)
		status := h.runner.Run(&testScript{run: func(ctx *Context) error {
			if err := ctx.Error("just a warning", 0); err != nil {
				return err
			}
			ctx.Output("after\n", output.NoChannel)
			return nil
		}}, []string{"warn"})
		if status != 0 {
			t.Errorf("status = %d, want 0", status)
		}
		if h.stdout.String() != "after\n" {
			t.Errorf("stdout = %q", h.stdout.String())
		}
	})

	t.Run("panic", func(t *testing.T) {
		h := newHarness(t)
		status := h.runner.Run(&testScript{run: func(*Context) error {
			panic("kaboom")
		}}, []string{"panic"})
		if status != 1 {
			t.Errorf("status = %d, want 1", status)
		}
		if !strings.Contains(h.stderr.String(), "kaboom") {
			t.Errorf("stderr = %q", h.stderr.String())
		}
	})
}

func TestRun_MemoryLimit(t *testing.T) {
	tests := []struct {
		name string
		argv []string
		want []int64
	}{
		{"default is unlimited", []string{"mem"}, []int64{math.MaxInt64, math.MaxInt64}},
		{"explicit", []string{"mem", "--memory-limit", "'512M'"}, []int64{512 << 20, 512 << 20}},
		{"untouched", []string{"mem", "--memory-limit=default"}, nil},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			h := newHarness(t)
			if status := h.runner.Run(&testScript{}, test.argv); status != 0 {
				t.Fatalf("status = %d, stderr = %q", status, h.stderr.String())
			}
			if len(h.limiter.memory) != len(test.want) {
				t.Fatalf("memory limits = %v, want %v", h.limiter.memory, test.want)
			}
			for i := range test.want {
				if h.limiter.memory[i] != test.want[i] {
					t.Errorf("memory limit %d = %d, want %d", i, h.limiter.memory[i], test.want[i])
				}
			}
			if h.limiter.timeRemoved != 2 {
				t.Errorf("time limit removed %d times, want 2", h.limiter.timeRemoved)
			}
		})
	}

	t.Run("invalid", func(t *testing.T) {
		h := newHarness(t)
		script := &testScript{}
		if status := h.runner.Run(script, []string{"mem", "--memory-limit=lots"}); status != 1 {
			t.Errorf("status = %d, want 1", status)
		}
		if script.ran {
			t.Error("script ran with invalid memory limit")
		}
	})
}

func TestRun_BatchSize(t *testing.T) {
	declare := func(def *Definition) error { return def.SetBatchSize(50) }

	tests := []struct {
		name string
		argv []string
		want int
	}{
		{"default", []string{"batch"}, 50},
		{"override", []string{"batch", "--batch-size", "10"}, 10},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			h := newHarness(t)
			var (
				size int
				ok   bool
			)
			script := &testScript{declare: declare, run: func(ctx *Context) error {
				size, ok = ctx.BatchSize()
				return nil
			}}
			if status := h.runner.Run(script, test.argv); status != 0 {
				t.Fatalf("status = %d, stderr = %q", status, h.stderr.String())
			}
			if !ok || size != test.want {
				t.Errorf("BatchSize() = %d, %v, want %d, true", size, ok, test.want)
			}
		})
	}

	t.Run("help lists it as dependent", func(t *testing.T) {
		h := newHarness(t)
		h.runner.Run(&testScript{declare: declare}, []string{"batch", "-h"})
		out := h.stdout.String()
		if !strings.Contains(out, "Script dependent parameters:") || !strings.Contains(out, "default: 50") {
			t.Errorf("help output:\n%s", out)
		}
	})

	t.Run("absent without declaration", func(t *testing.T) {
		h := newHarness(t)
		var ok bool
		script := &testScript{run: func(ctx *Context) error {
			_, ok = ctx.BatchSize()
			return nil
		}}
		h.runner.Run(script, []string{"batch"})
		if ok {
			t.Error("BatchSize reported a size for a script without batches")
		}
	})
}

func TestRun_PhaseOrder(t *testing.T) {
	h := newHarness(t)
	var phases []Phase
	script := &testScript{
		declare: func(*Definition) error {
			phases = append(phases, PhaseArgsLoaded)
			return nil
		},
		afterSetup: func(ctx *Context) error {
			phases = append(phases, ctx.Phase())
			if ctx.Settings().Empty() {
				t.Error("settings not loaded before final setup")
			}
			return nil
		},
		run: func(ctx *Context) error {
			phases = append(phases, ctx.Phase())
			return nil
		},
	}
	if status := h.runner.Run(script, []string{"phases"}); status != 0 {
		t.Fatalf("status = %d, stderr = %q", status, h.stderr.String())
	}
	want := []Phase{PhaseArgsLoaded, PhaseFinalSetup, PhaseExecuting}
	if len(phases) != len(want) {
		t.Fatalf("phases = %v, want %v", phases, want)
	}
	for i := range want {
		if phases[i] != want[i] {
			t.Errorf("phase %d = %v, want %v", i, phases[i], want[i])
		}
	}
}

func TestRun_InitializerErrorStopsRun(t *testing.T) {
	h := newHarness(t)
	script := &testScript{afterSetup: func(*Context) error {
		return errors.New("not ready")
	}}
	if status := h.runner.Run(script, []string{"init"}); status != 1 {
		t.Errorf("status = %d, want 1", status)
	}
	if script.ran {
		t.Error("script ran after failed initializer")
	}
}

func TestRun_Globals(t *testing.T) {
	h := newHarness(t)
	script := &testScript{run: func(ctx *Context) error {
		ctx.Output("work\n", output.NoChannel)
		return nil
	}}
	if status := h.runner.Run(script, []string{"dump", "--globals", "-q", "tail"}); status != 0 {
		t.Fatalf("status = %d, stderr = %q", status, h.stderr.String())
	}
	out := h.stdout.String()
	for _, want := range []string{"script: dump", "phase: done", "quiet: true", "memory_limit: max", "- tail", "host: localhost", "SCRIPTKIT_ROOT:", "go_version:"} {
		if !strings.Contains(out, want) {
			t.Errorf("dump missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "work") {
		t.Error("quiet run still printed script output")
	}
}

func TestRun_AllowUnknownOptions(t *testing.T) {
	h := newHarness(t)
	h.runner.AllowUnknownOptions = true
	var value string
	script := &testScript{run: func(ctx *Context) error {
		value = ctx.Option("extra", "")
		return nil
	}}
	if status := h.runner.Run(script, []string{"loose", "--extra=1"}); status != 0 {
		t.Fatalf("status = %d, stderr = %q", status, h.stderr.String())
	}
	if value != "1" {
		t.Errorf("extra = %q, want 1", value)
	}
}
