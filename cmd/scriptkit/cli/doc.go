// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli is the small command-tree framework behind the scriptkit
// binary: named commands with pflag flag sets, subcommand dispatch,
// help output and typo suggestions.
//
// Scripts themselves do not use this package. Their options are parsed
// by lib/option, which keeps the ordering and duplicate rules scripts
// rely on; the command tree only routes "scriptkit run <name>" to the
// script runner and offers a few catalog commands around it.
package cli
