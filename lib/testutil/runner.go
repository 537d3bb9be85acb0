// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"bytes"
	"io"
	"log/slog"
	"math"
	"sort"
	"strings"
	"testing"

	"github.com/bureau-foundation/scriptkit/lib/script"
)

// Limits records memory limit changes instead of applying them.
type Limits struct {
	Memory      []int64
	TimeRemoved int
}

func (l *Limits) SetMemoryLimit(bytes int64) int64 {
	l.Memory = append(l.Memory, bytes)
	return math.MaxInt64
}

func (l *Limits) RemoveTimeLimit() error {
	l.TimeRemoved++
	return nil
}

// Harness is a runner wired to in-memory streams.
type Harness struct {
	Runner *script.Runner
	Stdout *bytes.Buffer
	Stderr *bytes.Buffer
	Limits *Limits
	Env    map[string]string
}

// NewRunner returns a Harness reading stdin from the given text. The
// environment starts empty; tests add to Env before running.
func NewRunner(t *testing.T, stdin string) *Harness {
	t.Helper()
	harness := &Harness{
		Stdout: &bytes.Buffer{},
		Stderr: &bytes.Buffer{},
		Limits: &Limits{},
		Env:    make(map[string]string),
	}
	harness.Runner = &script.Runner{
		Stdin:   strings.NewReader(stdin),
		Stdout:  harness.Stdout,
		Stderr:  harness.Stderr,
		Getenv:  func(name string) string { return harness.Env[name] },
		Environ: harness.environ,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Limiter: harness.Limits,
	}
	return harness
}

func (h *Harness) environ() []string {
	entries := make([]string, 0, len(h.Env))
	for name, value := range h.Env {
		entries = append(entries, name+"="+value)
	}
	sort.Strings(entries)
	return entries
}

// Result is the outcome of one script run.
type Result struct {
	Status int
	Stdout string
	Stderr string
}

// Run runs s with argv and returns what it produced.
func (h *Harness) Run(s script.Script, argv ...string) Result {
	status := h.Runner.Run(s, argv)
	return Result{Status: status, Stdout: h.Stdout.String(), Stderr: h.Stderr.String()}
}

// RunScript runs s as name with a settings file holding settings,
// standard input stdin and the given arguments.
func RunScript(t *testing.T, s script.Script, name, settings, stdin string, args ...string) Result {
	t.Helper()
	argv := append([]string{name, "--conf", SettingsDir(t, settings)}, args...)
	return NewRunner(t, stdin).Run(s, argv...)
}
