// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"os"

	"github.com/bureau-foundation/scriptkit/cmd/scriptkit/commands"
	"github.com/bureau-foundation/scriptkit/lib/process"
)

func main() {
	if err := commands.Root().Execute(os.Args[1:]); err != nil {
		// Scripts report their own errors; only the status is left.
		if process.Handled(err) {
			os.Exit(process.Code(err))
		}
		process.Fatal(err)
	}
}
