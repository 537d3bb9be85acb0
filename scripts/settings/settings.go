// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package settings prints values from the loaded settings file.
//
// Each --key is a "/"-separated path. Scalars print as "path = value";
// mappings and lists print as an indented YAML block. Without --key the
// top-level keys are listed on a single line.
package settings

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/scriptkit/lib/option"
	"github.com/bureau-foundation/scriptkit/lib/output"
	"github.com/bureau-foundation/scriptkit/lib/script"
)

// Name is the catalog name.
const Name = "settings"

// MissingExitCode is returned with --strict when a key does not exist.
const MissingExitCode = 2

const keysChannel output.Channel = "keys"

// Script prints settings.
type Script struct{}

// New returns a settings script.
func New() script.Script {
	return &Script{}
}

func (s *Script) DeclareOptions(def *script.Definition) error {
	def.Describe("Prints values from the settings file. Paths use \"/\" between " +
		"components and numeric components index into lists, e.g. db/replicas/0/host.")
	if err := def.AddOption(option.OptionSpec{
		Name:        "key",
		Description: "Settings path to print, may be repeated",
		TakesValue:  true,
		Repeatable:  true,
		Short:       'k',
	}); err != nil {
		return err
	}
	return def.AddOption(option.OptionSpec{
		Name:        "strict",
		Description: "Fail when a path does not exist",
	})
}

func (s *Script) Run(ctx *script.Context) error {
	keys := ctx.Values("key")
	if len(keys) == 0 {
		return s.listTopLevel(ctx)
	}

	strict := ctx.HasOption("strict")
	for _, key := range keys {
		value := ctx.Config(key, nil)
		if value == nil {
			if strict {
				return ctx.Error(fmt.Sprintf("no setting at %q", key), MissingExitCode)
			}
			ctx.Logger().Warn("setting not found", "key", key)
			continue
		}

		text, err := format(value)
		if err != nil {
			return fmt.Errorf("formatting %s: %w", key, err)
		}
		if strings.Contains(text, "\n") {
			ctx.Outputf("%s:\n%s", key, indent(text))
		} else {
			ctx.Outputf("%s = %s\n", key, text)
		}
	}
	return nil
}

func (s *Script) listTopLevel(ctx *script.Context) error {
	values := ctx.Settings().Values()
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	ctx.Output("keys:", keysChannel)
	for _, name := range names {
		ctx.Output(" "+name, keysChannel)
	}
	return nil
}

// format renders scalars with fmt and everything else as YAML.
func format(value any) (string, error) {
	switch value.(type) {
	case map[string]any, map[any]any, []any:
		data, err := yaml.Marshal(value)
		if err != nil {
			return "", err
		}
		return string(data), nil
	default:
		return fmt.Sprint(value), nil
	}
}

func indent(text string) string {
	lines := strings.SplitAfter(text, "\n")
	var builder strings.Builder
	for _, line := range lines {
		if line == "" {
			continue
		}
		builder.WriteString("  ")
		builder.WriteString(line)
	}
	return builder.String()
}
