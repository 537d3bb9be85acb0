// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package option

import (
	"maps"
	"slices"
	"strings"
)

// Parsed is the result of scanning a token stream.
type Parsed struct {
	// Options maps long option names to their values. Keys exist only
	// for options that were supplied (or later defaulted by a caller).
	Options map[string]Value

	// Ordered lists every option assignment in input order, repeats
	// included.
	Ordered []Occurrence

	// Args holds positional arguments in input order.
	Args []string
}

// NewParsed returns an empty result. Callers that inject state for a
// child script build on it directly.
func NewParsed() *Parsed {
	return &Parsed{Options: make(map[string]Value)}
}

// Has reports whether name was supplied.
func (p *Parsed) Has(name string) bool {
	_, exists := p.Options[name]
	return exists
}

// Value returns the value stored under name.
func (p *Parsed) Value(name string) (Value, bool) {
	value, exists := p.Options[name]
	return value, exists
}

// String returns the string form of name, or fallback when absent.
func (p *Parsed) String(name, fallback string) string {
	if value, exists := p.Options[name]; exists {
		return value.String()
	}
	return fallback
}

// SetDefault stores fallback under name when name is absent and
// returns the (possibly new) value. Later lookups see the default
// without repeating it.
func (p *Parsed) SetDefault(name string, fallback Value) Value {
	if value, exists := p.Options[name]; exists {
		return value
	}
	p.Options[name] = fallback
	return fallback
}

// Occurrences returns the ordered occurrences of a single option.
func (p *Parsed) Occurrences(name string) []Occurrence {
	var matched []Occurrence
	for _, occurrence := range p.Ordered {
		if occurrence.Name == name {
			matched = append(matched, occurrence)
		}
	}
	return matched
}

// HasArg reports whether a positional argument exists at index.
func (p *Parsed) HasArg(index int) bool {
	return index >= 0 && index < len(p.Args)
}

// Arg returns the positional argument at index, or fallback.
func (p *Parsed) Arg(index int, fallback string) string {
	if p.HasArg(index) {
		return p.Args[index]
	}
	return fallback
}

// Clone returns a deep copy. Values are immutable so only the
// containers are copied.
func (p *Parsed) Clone() *Parsed {
	return &Parsed{
		Options: maps.Clone(p.Options),
		Ordered: slices.Clone(p.Ordered),
		Args:    slices.Clone(p.Args),
	}
}

// Parse scans tokens (the program arguments without the program name)
// against registry. The registry is frozen before the first token.
// The first malformed, unknown, duplicated or value-less option stops
// the scan and is returned as a *ParseError.
func Parse(registry *Registry, tokens []string) (*Parsed, error) {
	registry.Freeze()

	scanner := &parser{
		registry: registry,
		tokens:   tokens,
		parsed:   NewParsed(),
	}
	if err := scanner.run(); err != nil {
		return nil, err
	}
	return scanner.parsed, nil
}

type parser struct {
	registry *Registry
	tokens   []string
	position int
	parsed   *Parsed
}

func (p *parser) run() error {
	for p.position < len(p.tokens) {
		token := p.tokens[p.position]
		p.position++

		var err error
		switch {
		case token == "--":
			p.parsed.Args = append(p.parsed.Args, p.tokens[p.position:]...)
			p.position = len(p.tokens)
		case strings.HasPrefix(token, "--"):
			err = p.long(token)
		case token == "-":
			p.parsed.Args = append(p.parsed.Args, token)
		case strings.HasPrefix(token, "-"):
			err = p.shortCluster(token)
		default:
			p.parsed.Args = append(p.parsed.Args, token)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// long handles "--name", "--name=value" and "--name value".
func (p *parser) long(token string) error {
	name, value, hasValue := strings.Cut(token[2:], "=")
	if name == "" {
		return &ParseError{Err: ErrMalformedToken, Token: token}
	}

	spec, known := p.registry.Lookup(name)
	if !known && !p.registry.allowUnknown {
		return &ParseError{
			Err:        ErrUnknownOption,
			Option:     name,
			Token:      token,
			Suggestion: suggestOption(name, p.registry),
		}
	}

	switch {
	case known && spec.TakesValue && !hasValue:
		next, ok := p.consume()
		if !ok {
			return &ParseError{Err: ErrMissingOptionValue, Option: name, Token: token}
		}
		return p.set(name, Scalar(next), token)
	case hasValue:
		return p.set(name, Scalar(value), token)
	default:
		return p.set(name, Flag(), token)
	}
}

// shortCluster handles "-abc". Each character is a short flag; a
// value-taking one consumes the next token and ends the cluster.
func (p *parser) shortCluster(token string) error {
	for _, short := range token[1:] {
		name, known := p.resolveShort(short)
		if !known && !p.registry.allowUnknown {
			return &ParseError{Err: ErrUnknownOption, Option: string(short), Token: token}
		}

		spec, _ := p.registry.Lookup(name)
		if spec.TakesValue {
			next, ok := p.consume()
			if !ok {
				return &ParseError{Err: ErrMissingOptionValue, Option: name, Token: token}
			}
			return p.set(name, Scalar(next), token)
		}
		if err := p.set(name, Flag(), token); err != nil {
			return err
		}
	}
	return nil
}

// resolveShort prefers a single-character long name over an alias.
func (p *parser) resolveShort(short rune) (string, bool) {
	if _, exists := p.registry.Lookup(string(short)); exists {
		return string(short), true
	}
	if name, exists := p.registry.ResolveShort(short); exists {
		return name, true
	}
	return string(short), false
}

func (p *parser) consume() (string, bool) {
	if p.position >= len(p.tokens) {
		return "", false
	}
	token := p.tokens[p.position]
	p.position++
	return token, true
}

// set records one assignment: always in Ordered, then into Options
// according to the option's repeatability.
func (p *parser) set(name string, value Value, token string) error {
	p.parsed.Ordered = append(p.parsed.Ordered, Occurrence{Name: name, Value: value})

	spec, _ := p.registry.Lookup(name)
	existing, exists := p.parsed.Options[name]
	switch {
	case spec.Repeatable && exists:
		p.parsed.Options[name] = existing.appended(value.String())
	case spec.Repeatable:
		p.parsed.Options[name] = Sequence(value.String())
	case exists:
		return &ParseError{Err: ErrDuplicateOption, Option: name, Token: token}
	default:
		p.parsed.Options[name] = value
	}
	return nil
}
