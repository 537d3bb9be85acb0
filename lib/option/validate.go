// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package option

// Validate checks parsed against the registry's required options and
// required positional slots. Every violation is collected; the result
// is nil or a *ValidationError. Required options are checked in
// registration order, then arguments in slot order.
func Validate(registry *Registry, parsed *Parsed) error {
	var problems []Problem

	for _, name := range registry.order {
		spec := registry.options[name]
		if spec.Required && !parsed.Has(name) {
			problems = append(problems, Problem{Err: ErrMissingRequiredOption, Name: name})
		}
	}

	for position, spec := range registry.args {
		if spec.Required && !parsed.HasArg(position) {
			problems = append(problems, Problem{Err: ErrMissingRequiredArg, Name: spec.Name, Position: position})
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return &ValidationError{Problems: problems}
}
