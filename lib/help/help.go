// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package help renders the usage text of a script from its option
// registry.
//
// The layout is fixed: the word-wrapped description, a usage line, then
// one section per option group (generic, script dependent, script
// specific) and a section for positional arguments. Each entry is
// rendered as
//
//	    --name (-x): description that wraps onto
//	        indented continuation lines
//
// Every registered option appears in exactly one section.
package help

import (
	"path/filepath"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/scriptkit/lib/option"
)

const (
	// DefaultWidth is the column limit for all help text.
	DefaultWidth = 80

	tab = "    "
)

// Section titles, in rendering order.
const (
	GenericTitle   = "Generic parameters:"
	DependentTitle = "Script dependent parameters:"
	SpecificTitle  = "Script specific parameters:"
	ArgumentsTitle = "Arguments:"
)

// Page is everything the formatter needs.
type Page struct {
	// Program is shown on the usage line. Only its base name is used.
	Program string

	Description string
	Registry    *option.Registry

	// Width overrides DefaultWidth when positive.
	Width int
}

// Render returns the complete help text. The text starts with a blank
// line and every line ends with a newline.
func Render(page Page) string {
	width := page.Width
	if width <= 0 {
		width = DefaultWidth
	}
	// Entries get one tab of indentation and continuation lines two;
	// the wrapped text itself is limited so no line exceeds width.
	entryWidth := width - 2*len(tab)

	var builder strings.Builder

	if page.Description != "" {
		builder.WriteString("\n")
		builder.WriteString(ansi.Wordwrap(page.Description, width, ""))
		builder.WriteString("\n")
	}

	builder.WriteString("\n")
	builder.WriteString(usageLine(page))
	builder.WriteString("\n\n")

	sections := []struct {
		title string
		group option.Group
		// always is set for the generic section, which is printed
		// even when every generic option was removed.
		always bool
	}{
		{GenericTitle, option.GroupGeneric, true},
		{DependentTitle, option.GroupDependent, false},
		{SpecificTitle, option.GroupSpecific, false},
	}
	for _, section := range sections {
		specs := page.Registry.OptionsIn(section.group)
		if len(specs) == 0 && !section.always {
			continue
		}
		builder.WriteString(section.title)
		builder.WriteString("\n")
		for _, spec := range specs {
			builder.WriteString(entry(optionLabel(spec), spec.Description, entryWidth))
		}
		builder.WriteString("\n")
	}

	if args := page.Registry.Args(); len(args) > 0 {
		builder.WriteString(ArgumentsTitle)
		builder.WriteString("\n")
		for _, spec := range args {
			builder.WriteString(entry(argLabel(spec), spec.Description, entryWidth))
		}
		builder.WriteString("\n")
	}

	return builder.String()
}

// usageLine lists the program, every long option and the positional
// placeholders: "Usage: name [--a|--b] <required> [optional]". The
// line is not wrapped, however long it gets.
func usageLine(page Page) string {
	line := "Usage: " + filepath.Base(page.Program)

	specs := page.Registry.Options()
	if len(specs) > 0 {
		names := make([]string, len(specs))
		for i, spec := range specs {
			names[i] = "--" + spec.Name
		}
		line += " [" + strings.Join(names, "|") + "]"
	}

	args := page.Registry.Args()
	if len(args) > 0 {
		placeholders := make([]string, len(args))
		for i, spec := range args {
			placeholders[i] = argLabel(spec)
		}
		line += " " + strings.Join(placeholders, " ")
	}
	return line
}

func optionLabel(spec option.OptionSpec) string {
	label := "--" + spec.Name
	if spec.Short != 0 {
		label += " (-" + string(spec.Short) + ")"
	}
	return label
}

func argLabel(spec option.ArgSpec) string {
	if spec.Required {
		return "<" + spec.Name + ">"
	}
	return "[" + spec.Name + "]"
}

// entry renders "label: description" wrapped to width with continuation
// lines indented one extra tab.
func entry(label, description string, width int) string {
	wrapped := ansi.Wordwrap(label+": "+description, width, "")
	lines := strings.Split(wrapped, "\n")
	for i, line := range lines {
		line = strings.TrimRight(line, " ")
		if i == 0 {
			lines[i] = tab + line
		} else {
			lines[i] = tab + tab + strings.TrimLeft(line, " ")
		}
	}
	return strings.Join(lines, "\n") + "\n"
}
