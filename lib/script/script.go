// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package script

import (
	"fmt"

	"github.com/bureau-foundation/scriptkit/lib/option"
)

// Script is the work routine of a concrete script.
type Script interface {
	Run(ctx *Context) error
}

// Declarer is implemented by scripts that accept options or arguments.
// DeclareOptions runs once, after the framework's default options are
// registered and before parsing.
type Declarer interface {
	DeclareOptions(def *Definition) error
}

// Initializer is implemented by scripts that need a hook after
// configuration has loaded and before Run.
type Initializer interface {
	AfterFinalSetup(ctx *Context) error
}

// Definition collects what a script declares about itself.
type Definition struct {
	registry    *option.Registry
	description string
	batchSize   int
}

func newDefinition(registry *option.Registry) *Definition {
	return &Definition{registry: registry}
}

// Describe sets the free text shown at the top of the help output.
func (d *Definition) Describe(text string) {
	d.description = text
}

// Description returns the text set by Describe.
func (d *Definition) Description() string {
	return d.description
}

// AddOption registers a script-specific option.
func (d *Definition) AddOption(spec option.OptionSpec) error {
	spec.Group = option.GroupSpecific
	return d.registry.Register(spec)
}

// AddArg appends a positional argument slot.
func (d *Definition) AddArg(spec option.ArgSpec) error {
	return d.registry.RegisterArg(spec)
}

// DeleteOption removes an option, including a default one the script
// does not support.
func (d *Definition) DeleteOption(name string) error {
	return d.registry.Unregister(name)
}

// SetBatchSize declares that the script works in batches of size by
// default and exposes --batch-size to override it. A size of 0 or less
// leaves the option undeclared.
func (d *Definition) SetBatchSize(size int) error {
	d.batchSize = size
	if size <= 0 {
		return nil
	}
	if _, exists := d.registry.Lookup(BatchSizeOption); exists {
		if err := d.registry.Unregister(BatchSizeOption); err != nil {
			return err
		}
	}
	return d.registry.Register(option.OptionSpec{
		Name:        BatchSizeOption,
		Description: fmt.Sprintf("Run this many operations per batch, default: %d", size),
		TakesValue:  true,
		Group:       option.GroupDependent,
	})
}

// BatchSize returns the default set by SetBatchSize.
func (d *Definition) BatchSize() int {
	return d.batchSize
}

// Registry exposes the underlying registry.
func (d *Definition) Registry() *option.Registry {
	return d.registry
}
