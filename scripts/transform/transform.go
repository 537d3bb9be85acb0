// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package transform applies a chain of text transformations to its
// input, one line at a time. The chain is the transformation options in
// the order they were given, so "--upper --append=!" and
// "--append=! --upper" differ only in where they ran, and repeated
// options apply repeatedly.
package transform

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/bureau-foundation/scriptkit/lib/option"
	"github.com/bureau-foundation/scriptkit/lib/output"
	"github.com/bureau-foundation/scriptkit/lib/script"
)

// Name is the catalog name.
const Name = "transform"

// DefaultBatchSize is the number of lines between progress reports.
const DefaultBatchSize = 100

// MaxLengthSetting caps output line length when set to a positive
// integer in the settings file.
const MaxLengthSetting = "transform/max_length"

const joinChannel output.Channel = "join"

type step func(string, string) string

var steps = map[string]step{
	"upper":   func(line, _ string) string { return strings.ToUpper(line) },
	"lower":   func(line, _ string) string { return strings.ToLower(line) },
	"reverse": func(line, _ string) string { return reverse(line) },
	"trim":    func(line, _ string) string { return strings.TrimSpace(line) },
	"append":  func(line, suffix string) string { return line + suffix },
	"prefix":  func(line, prefix string) string { return prefix + line },
}

// Script transforms its input.
type Script struct {
	maxLength int
}

// New returns a transform script.
func New() script.Script {
	return &Script{}
}

func (s *Script) DeclareOptions(def *script.Definition) error {
	def.Describe("Transforms each input line by the transformation options in the order given. " +
		`The input is the "input" argument, or standard input when it is "-".`)

	specs := []option.OptionSpec{
		{Name: "upper", Description: "Upper-case the line", Short: 'u', Repeatable: true},
		{Name: "lower", Description: "Lower-case the line", Short: 'l', Repeatable: true},
		{Name: "reverse", Description: "Reverse the characters of the line", Short: 'r', Repeatable: true},
		{Name: "trim", Description: "Strip surrounding white space", Repeatable: true},
		{Name: "append", Description: "Append text to the line", TakesValue: true, Short: 'a', Repeatable: true},
		{Name: "prefix", Description: "Prepend text to the line", TakesValue: true, Short: 'p', Repeatable: true},
		{Name: "join", Description: "Print the results on one line, separated by spaces", Short: 'j'},
		{Name: "progress", Description: "Log progress after every batch of lines"},
	}
	for _, spec := range specs {
		if err := def.AddOption(spec); err != nil {
			return err
		}
	}
	if err := def.AddArg(option.ArgSpec{
		Name:        "input",
		Description: `Text to transform, or "-" to read standard input`,
		Required:    true,
	}); err != nil {
		return err
	}
	return def.SetBatchSize(DefaultBatchSize)
}

// AfterFinalSetup reads the line length cap from the settings.
func (s *Script) AfterFinalSetup(ctx *script.Context) error {
	s.maxLength = ctx.Settings().Int(MaxLengthSetting, 0)
	if s.maxLength < 0 {
		return fmt.Errorf("%s must not be negative, got %d", MaxLengthSetting, s.maxLength)
	}
	return nil
}

func (s *Script) Run(ctx *script.Context) error {
	chain := ctx.Ordered()
	batchSize, _ := ctx.BatchSize()
	progress := ctx.HasOption("progress")
	join := ctx.HasOption("join")

	lines := s.input(ctx)
	count := 0
	for lines.Scan() {
		line := apply(chain, lines.Text())
		if s.maxLength > 0 && len([]rune(line)) > s.maxLength {
			line = string([]rune(line)[:s.maxLength])
		}
		switch {
		case join && count > 0:
			ctx.Output(" "+line, joinChannel)
		case join:
			ctx.Output(line, joinChannel)
		default:
			ctx.Output(line+"\n", output.NoChannel)
		}

		count++
		if progress && count%batchSize == 0 {
			ctx.Logger().Info("batch done", "lines", count)
		}
	}
	if err := lines.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	if progress {
		ctx.Logger().Info("input done", "lines", count)
	}
	return nil
}

func (s *Script) input(ctx *script.Context) *bufio.Scanner {
	argument := ctx.Arg(0, "")
	if argument == "-" {
		return bufio.NewScanner(ctx.Stdin())
	}
	return bufio.NewScanner(strings.NewReader(argument))
}

// apply runs every transformation occurrence over line in order.
// Occurrences of other options are skipped.
func apply(chain []option.Occurrence, line string) string {
	for _, occurrence := range chain {
		if transform, ok := steps[occurrence.Name]; ok {
			line = transform(line, occurrence.Value.String())
		}
	}
	return line
}

func reverse(s string) string {
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}
