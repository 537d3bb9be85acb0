// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package script

import "github.com/bureau-foundation/scriptkit/lib/option"

// Names of the options the framework registers or reads.
const (
	HelpOption        = "help"
	QuietOption       = "quiet"
	ConfOption        = "conf"
	GlobalsOption     = "globals"
	MemoryLimitOption = "memory-limit"
	BatchSizeOption   = "batch-size"
)

var defaultOptions = []option.OptionSpec{
	{Name: HelpOption, Description: "Display this help message", Short: 'h'},
	{Name: QuietOption, Description: "Whether to suppress non-error output", Short: 'q'},
	{Name: ConfOption, Description: "Directory holding the settings file, if not default", TakesValue: true},
	{Name: GlobalsOption, Description: "Output the script state at the end of processing for debugging"},
	{
		Name:        MemoryLimitOption,
		Description: `Set a specific memory limit for the script, "max" for no limit or "default" to avoid changing it`,
		TakesValue:  true,
	},
}

// registerDefaults adds the generic options every script accepts.
func registerDefaults(registry *option.Registry) error {
	for _, spec := range defaultOptions {
		spec.Group = option.GroupGeneric
		if err := registry.Register(spec); err != nil {
			return err
		}
	}
	return nil
}
