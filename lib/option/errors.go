// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package option

import (
	"errors"
	"fmt"
	"strings"
)

// Registration errors.
var (
	// ErrDuplicateOption is returned when a long name or short alias is
	// registered twice, and when a non-repeatable option is supplied more
	// than once on the command line.
	ErrDuplicateOption = errors.New("duplicate option")

	// ErrInvalidOption is returned for option specs with an unusable
	// name or short alias.
	ErrInvalidOption = errors.New("invalid option")

	// ErrRegistryFrozen is returned when the registry is modified after
	// parsing has begun.
	ErrRegistryFrozen = errors.New("option registry is frozen after parsing begins")
)

// Parse errors.
var (
	ErrMissingOptionValue = errors.New("missing option value")
	ErrUnknownOption      = errors.New("unknown option")
	ErrMalformedToken     = errors.New("malformed token")
)

// Validation errors.
var (
	ErrMissingRequiredOption = errors.New("missing required option")
	ErrMissingRequiredArg    = errors.New("missing required argument")
)

// ParseError describes the token that stopped the parser. Err is one of
// the parse sentinels (or [ErrDuplicateOption]).
type ParseError struct {
	Err error

	// Option is the resolved long option name, if any.
	Option string

	// Token is the raw token being scanned.
	Token string

	// Suggestion is the closest registered option for an unknown one,
	// already prefixed with "--" or "-".
	Suggestion string
}

func (e *ParseError) Error() string {
	switch {
	case errors.Is(e.Err, ErrMissingOptionValue):
		return fmt.Sprintf("%s parameter needs a value after it", e.Option)
	case errors.Is(e.Err, ErrDuplicateOption):
		return fmt.Sprintf("%s parameter given twice", e.Option)
	case errors.Is(e.Err, ErrUnknownOption):
		if e.Suggestion != "" {
			return fmt.Sprintf("unknown option %q in %q (did you mean %s?)", e.Option, e.Token, e.Suggestion)
		}
		return fmt.Sprintf("unknown option %q in %q", e.Option, e.Token)
	default:
		return fmt.Sprintf("%v: %q", e.Err, e.Token)
	}
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Problem is a single validation failure.
type Problem struct {
	// Err is ErrMissingRequiredOption or ErrMissingRequiredArg.
	Err error

	// Name is the option or argument name.
	Name string

	// Position is the positional slot index for argument problems.
	Position int
}

func (p Problem) Error() string {
	if errors.Is(p.Err, ErrMissingRequiredArg) {
		return fmt.Sprintf("Argument <%s> required!", p.Name)
	}
	return fmt.Sprintf("Param %s required!", p.Name)
}

func (p Problem) Unwrap() error {
	return p.Err
}

// ValidationError collects every problem found by [Validate].
type ValidationError struct {
	Problems []Problem
}

func (e *ValidationError) Error() string {
	messages := make([]string, len(e.Problems))
	for i, problem := range e.Problems {
		messages[i] = problem.Error()
	}
	return strings.Join(messages, "\n")
}

// Unwrap exposes each problem so errors.Is matches either sentinel.
func (e *ValidationError) Unwrap() []error {
	errs := make([]error, len(e.Problems))
	for i, problem := range e.Problems {
		errs[i] = problem
	}
	return errs
}
