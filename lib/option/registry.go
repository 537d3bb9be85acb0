// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package option

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// Group decides which help section an option is listed under.
type Group int

const (
	// GroupSpecific options are declared by the concrete script. This
	// is the zero value so scripts never need to set it.
	GroupSpecific Group = iota
	// GroupDependent options are framework-provided but only present
	// when the script opts in (for example batch-size).
	GroupDependent
	// GroupGeneric options are registered by the framework for every
	// script (help, quiet, conf, ...).
	GroupGeneric
)

// OptionSpec declares a long option.
type OptionSpec struct {
	Name        string
	Description string
	Required    bool

	// TakesValue options consume a value: the following token, or the
	// text after "=" in the long form.
	TakesValue bool

	// Short is the single-character alias, or 0 for none.
	Short rune

	// Repeatable options accumulate a [Sequence] instead of failing
	// with ErrDuplicateOption on the second occurrence.
	Repeatable bool

	Group Group
}

// ArgSpec declares a positional argument slot. Slots are matched to
// positional arguments by registration order.
type ArgSpec struct {
	Name        string
	Description string
	Required    bool
}

// Registry is the declarative store of options and positional slots.
// It is populated before parsing and frozen once parsing begins.
type Registry struct {
	options      map[string]OptionSpec
	order        []string
	shorts       map[rune]string
	args         []ArgSpec
	allowUnknown bool
	frozen       bool
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// AllowUnknown makes the parser accept options that are not registered.
// They are recorded as non-repeatable options with no spec.
func AllowUnknown() RegistryOption {
	return func(r *Registry) {
		r.allowUnknown = true
	}
}

// NewRegistry returns an empty registry.
func NewRegistry(options ...RegistryOption) *Registry {
	registry := &Registry{
		options: make(map[string]OptionSpec),
		shorts:  make(map[rune]string),
	}
	for _, apply := range options {
		apply(registry)
	}
	return registry
}

// Register adds spec. The long name and the short alias must both be
// unused.
func (r *Registry) Register(spec OptionSpec) error {
	if r.frozen {
		return fmt.Errorf("registering --%s: %w", spec.Name, ErrRegistryFrozen)
	}
	if spec.Name == "" || strings.HasPrefix(spec.Name, "-") || strings.ContainsAny(spec.Name, "= \t") {
		return fmt.Errorf("%w: name %q", ErrInvalidOption, spec.Name)
	}
	if spec.Short == '-' || spec.Short == ' ' || spec.Short == '=' {
		return fmt.Errorf("%w: short alias %q for --%s", ErrInvalidOption, spec.Short, spec.Name)
	}
	if _, exists := r.options[spec.Name]; exists {
		return fmt.Errorf("%w: --%s is already registered", ErrDuplicateOption, spec.Name)
	}
	if spec.Short != 0 {
		if owner, exists := r.shorts[spec.Short]; exists {
			return fmt.Errorf("%w: -%c is already the alias of --%s", ErrDuplicateOption, spec.Short, owner)
		}
		r.shorts[spec.Short] = spec.Name
	}
	r.options[spec.Name] = spec
	r.order = append(r.order, spec.Name)
	return nil
}

// RegisterArg appends a positional slot.
func (r *Registry) RegisterArg(spec ArgSpec) error {
	if r.frozen {
		return fmt.Errorf("registering argument <%s>: %w", spec.Name, ErrRegistryFrozen)
	}
	if spec.Name == "" {
		return fmt.Errorf("%w: empty argument name", ErrInvalidOption)
	}
	r.args = append(r.args, spec)
	return nil
}

// Unregister removes an option and its short alias. Removing an option
// that does not exist is not an error.
func (r *Registry) Unregister(name string) error {
	if r.frozen {
		return fmt.Errorf("removing --%s: %w", name, ErrRegistryFrozen)
	}
	spec, exists := r.options[name]
	if !exists {
		return nil
	}
	if spec.Short != 0 {
		delete(r.shorts, spec.Short)
	}
	delete(r.options, name)
	r.order = slices.DeleteFunc(r.order, func(candidate string) bool {
		return candidate == name
	})
	return nil
}

// Freeze rejects further modification. The parser calls it before
// scanning the first token.
func (r *Registry) Freeze() {
	r.frozen = true
}

// Frozen reports whether Freeze has been called.
func (r *Registry) Frozen() bool {
	return r.frozen
}

// AllowsUnknown reports whether unregistered options pass through.
func (r *Registry) AllowsUnknown() bool {
	return r.allowUnknown
}

// Lookup returns the spec registered under name.
func (r *Registry) Lookup(name string) (OptionSpec, bool) {
	spec, exists := r.options[name]
	return spec, exists
}

// ResolveShort maps a short alias to its long name.
func (r *Registry) ResolveShort(short rune) (string, bool) {
	name, exists := r.shorts[short]
	return name, exists
}

// Names returns the registered long names in registration order.
func (r *Registry) Names() []string {
	return slices.Clone(r.order)
}

// Options returns every spec sorted by long name.
func (r *Registry) Options() []OptionSpec {
	specs := make([]OptionSpec, 0, len(r.options))
	for _, spec := range r.options {
		specs = append(specs, spec)
	}
	sort.Slice(specs, func(i, j int) bool {
		return specs[i].Name < specs[j].Name
	})
	return specs
}

// OptionsIn returns the specs of one group sorted by long name.
func (r *Registry) OptionsIn(group Group) []OptionSpec {
	var specs []OptionSpec
	for _, spec := range r.Options() {
		if spec.Group == group {
			specs = append(specs, spec)
		}
	}
	return specs
}

// Args returns the positional slots in registration order.
func (r *Registry) Args() []ArgSpec {
	return slices.Clone(r.args)
}
