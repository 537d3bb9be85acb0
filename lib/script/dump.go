// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package script

import (
	"bytes"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/scriptkit/lib/option"
)

// stateDump is what --globals prints at the end of a run.
type stateDump struct {
	Script         string                  `yaml:"script"`
	Type           string                  `yaml:"type"`
	Phase          string                  `yaml:"phase"`
	Quiet          bool                    `yaml:"quiet"`
	BatchSize      *int                    `yaml:"batch_size,omitempty"`
	MemoryLimit    string                  `yaml:"memory_limit"`
	Options        map[string]option.Value `yaml:"options"`
	OrderedOptions []option.Occurrence     `yaml:"ordered_options"`
	Args           []string                `yaml:"args"`
	SettingsFile   string                  `yaml:"settings_file,omitempty"`
	Settings       map[string]any          `yaml:"settings"`
	Environment    map[string]string       `yaml:"environment"`
	Runtime        runtimeDump             `yaml:"runtime"`
}

type runtimeDump struct {
	GoVersion  string `yaml:"go_version"`
	OS         string `yaml:"os"`
	Arch       string `yaml:"arch"`
	Goroutines int    `yaml:"goroutines"`
	HeapAlloc  uint64 `yaml:"heap_alloc_bytes"`
}

func (c *Context) snapshot(environ []string) stateDump {
	dump := stateDump{
		Script:         c.name,
		Type:           fmt.Sprintf("%T", c.script),
		Phase:          c.phase.String(),
		Quiet:          c.console.Quiet(),
		MemoryLimit:    c.memoryLimit.String(),
		Options:        c.parsed.Options,
		OrderedOptions: c.parsed.Ordered,
		Args:           c.parsed.Args,
		SettingsFile:   c.settings.Path(),
		Settings:       c.settings.Values(),
		Environment:    environment(environ),
	}
	if size, ok := c.BatchSize(); ok {
		dump.BatchSize = &size
	}

	var memory runtime.MemStats
	runtime.ReadMemStats(&memory)
	dump.Runtime = runtimeDump{
		GoVersion:  runtime.Version(),
		OS:         runtime.GOOS,
		Arch:       runtime.GOARCH,
		Goroutines: runtime.NumGoroutine(),
		HeapAlloc:  memory.HeapAlloc,
	}
	return dump
}

func environment(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		name, value, found := strings.Cut(entry, "=")
		if !found || name == "" {
			continue
		}
		values[name] = value
	}
	return values
}

// writeDump encodes the state as YAML. Terminal output is highlighted.
func (c *Context) writeDump(w io.Writer, environ []string) error {
	var buffer bytes.Buffer
	encoder := yaml.NewEncoder(&buffer)
	encoder.SetIndent(2)
	if err := encoder.Encode(c.snapshot(environ)); err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}

	if isTerminal(w) {
		if err := quick.Highlight(w, buffer.String(), "yaml", "terminal256", "monokai"); err == nil {
			return nil
		}
	}
	_, err := w.Write(buffer.Bytes())
	return err
}
