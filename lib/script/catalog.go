// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package script

import (
	"fmt"
	"sort"

	"github.com/bureau-foundation/scriptkit/lib/option"
)

// Factory builds a fresh instance of a script.
type Factory func() Script

// Catalog maps script names to factories. It replaces looking scripts
// up by global class name: a child script must be registered to be
// runnable by name.
type Catalog struct {
	factories map[string]Factory
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{factories: make(map[string]Factory)}
}

// Register adds a script under name.
func (c *Catalog) Register(name string, factory Factory) error {
	if name == "" {
		return fmt.Errorf("script name must not be empty")
	}
	if factory == nil {
		return fmt.Errorf("script %q has no factory", name)
	}
	if _, exists := c.factories[name]; exists {
		return fmt.Errorf("script %q registered twice", name)
	}
	c.factories[name] = factory
	return nil
}

// MustRegister is Register for package-level wiring, where a failure is
// a programming error.
func (c *Catalog) MustRegister(name string, factory Factory) {
	if err := c.Register(name, factory); err != nil {
		panic(err)
	}
}

// Lookup returns a new instance of the named script. An unknown name
// yields a *ChildSpawnError with the closest registered name.
func (c *Catalog) Lookup(name string) (Script, error) {
	factory, exists := c.factories[name]
	if !exists {
		return nil, &ChildSpawnError{Name: name, Suggestion: option.Closest(name, c.Names())}
	}
	return factory(), nil
}

// Names returns the registered names, sorted.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.factories))
	for name := range c.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Describe returns the description the named script declares, without
// running it.
func (c *Catalog) Describe(name string) (string, error) {
	instance, err := c.Lookup(name)
	if err != nil {
		return "", err
	}
	declarer, ok := instance.(Declarer)
	if !ok {
		return "", nil
	}
	definition := newDefinition(option.NewRegistry())
	if err := registerDefaults(definition.registry); err != nil {
		return "", err
	}
	if err := declarer.DeclareOptions(definition); err != nil {
		return "", fmt.Errorf("declaring options for %s: %w", name, err)
	}
	return definition.Description(), nil
}
