// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package hello is the smallest useful script: one required option and
// one optional one.
package hello

import (
	"fmt"

	"github.com/bureau-foundation/scriptkit/lib/option"
	"github.com/bureau-foundation/scriptkit/lib/output"
	"github.com/bureau-foundation/scriptkit/lib/script"
)

// Name is the catalog name.
const Name = "hello"

// Script greets --name.
type Script struct{}

// New returns a hello script.
func New() script.Script {
	return &Script{}
}

// DeclareOptions declares --name and --greeting.
func (s *Script) DeclareOptions(def *script.Definition) error {
	def.Describe("Prints a greeting for the given name.")
	if err := def.AddOption(option.OptionSpec{
		Name:        "name",
		Description: "Who to greet",
		Required:    true,
		TakesValue:  true,
		Short:       'n',
	}); err != nil {
		return err
	}
	return def.AddOption(option.OptionSpec{
		Name:        "greeting",
		Description: `Greeting to use, default "hello"`,
		TakesValue:  true,
		Short:       'g',
	})
}

func (s *Script) Run(ctx *script.Context) error {
	greeting := ctx.Option("greeting", "hello")
	ctx.Output(fmt.Sprintf("%s %s!\n", greeting, ctx.Option("name", "")), output.NoChannel)
	return nil
}
