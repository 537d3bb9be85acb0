// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the scriptkit command tree and the catalog of
// scripts it can run.
package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/scriptkit/cmd/scriptkit/cli"
	"github.com/bureau-foundation/scriptkit/lib/process"
	"github.com/bureau-foundation/scriptkit/lib/script"
	"github.com/bureau-foundation/scriptkit/scripts/hello"
	"github.com/bureau-foundation/scriptkit/scripts/settings"
	"github.com/bureau-foundation/scriptkit/scripts/transform"
)

// Catalog returns every script the binary ships.
func Catalog() *script.Catalog {
	catalog := script.NewCatalog()
	catalog.MustRegister(hello.Name, hello.New)
	catalog.MustRegister(settings.Name, settings.New)
	catalog.MustRegister(transform.Name, transform.New)
	return catalog
}

// Root builds the command tree bound to the running process.
func Root() *cli.Command {
	return build(os.Stdout, script.NewRunner(), Catalog())
}

func build(stdout io.Writer, runner *script.Runner, catalog *script.Catalog) *cli.Command {
	runner.Catalog = catalog
	return &cli.Command{
		Name: "scriptkit",
		Description: `scriptkit: runs administrative scripts.

Every script accepts --help, --quiet, --conf <dir>, --globals and
--memory-limit <size> in addition to its own options. Settings are read
from <dir>/settings.yaml (or .yml, .jsonc, .json); without --conf the
directory is $SCRIPTKIT_ROOT/config.`,
		Subcommands: []*cli.Command{
			listCommand(stdout, catalog),
			runCommand(runner, catalog),
			versionCommand(stdout),
		},
		Examples: []cli.Example{
			{Description: "Show the scripts", Command: "scriptkit list"},
			{Description: "Show a script's options", Command: "scriptkit run transform --help"},
			{Command: "scriptkit run hello --name Ada"},
		},
	}
}

type listEntry struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func listCommand(stdout io.Writer, catalog *script.Catalog) *cli.Command {
	var asJSON bool
	return &cli.Command{
		Name:    "list",
		Summary: "List available scripts",
		Usage:   "scriptkit list [--json]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("list", pflag.ContinueOnError)
			flagSet.BoolVar(&asJSON, "json", false, "output as JSON")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument %q", args[0])
			}

			var entries []listEntry
			for _, name := range catalog.Names() {
				description, err := catalog.Describe(name)
				if err != nil {
					return err
				}
				entries = append(entries, listEntry{Name: name, Description: description})
			}

			if asJSON {
				return cli.WriteJSON(stdout, entries)
			}
			tw := tabwriter.NewWriter(stdout, 2, 0, 3, ' ', 0)
			for _, entry := range entries {
				fmt.Fprintf(tw, "%s\t%s\n", entry.Name, entry.Description)
			}
			return tw.Flush()
		},
	}
}

func runCommand(runner *script.Runner, catalog *script.Catalog) *cli.Command {
	return &cli.Command{
		Name:    "run",
		Summary: "Run a script",
		Usage:   "scriptkit run <script> [script options and arguments]",
		Description: `Run a script through the full lifecycle and exit with its status.

Everything after the script name is handed to the script unparsed. Use
"scriptkit run <script> --help" for the script's own options.`,
		Run: func(args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("script name required\n\nRun 'scriptkit list' to see the scripts.")
			}
			name := args[0]
			instance, err := catalog.Lookup(name)
			if err != nil {
				var (
					spawn      *script.ChildSpawnError
					suggestion string
				)
				if errors.As(err, &spawn) && spawn.Suggestion != "" {
					suggestion = fmt.Sprintf(" (did you mean %q?)", spawn.Suggestion)
				}
				return fmt.Errorf("unknown script %q%s\n\nRun 'scriptkit list' to see the scripts.", name, suggestion)
			}

			argv := append([]string{name}, args[1:]...)
			return process.Exit(runner.Run(instance, argv))
		},
	}
}

func versionCommand(stdout io.Writer) *cli.Command {
	return &cli.Command{
		Name:    "version",
		Summary: "Print version information",
		Run: func(args []string) error {
			version := "(devel)"
			if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
				version = info.Main.Version
			}
			fmt.Fprintf(stdout, "scriptkit %s\n", version)
			return nil
		},
	}
}
