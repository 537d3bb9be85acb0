// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package script runs administrative scripts through a fixed lifecycle.
//
// A script is any type implementing [Script]. It may also implement
// [Declarer] to declare options, positional arguments, a description and
// a default batch size, and [Initializer] to run code once setup is
// complete. The [Runner] drives every script through the same phases:
//
//	Setup          reject non-command-line invocation, require argv
//	ArgsLoaded     register default options, parse, validate
//	HelpChecked    --help prints usage and exits 1
//	LimitsAdjusted apply --memory-limit, lift the CPU time limit
//	ConfigLoaded   load the settings file (--conf or <root>/config)
//	FinalSetup     Initializer hook, limits re-applied
//	Executing      Script.Run
//	Done           --globals dumps the final state
//
// Each phase is terminal on failure: the error is printed, usage text
// is added for parse and validation failures, and Run returns a
// non-zero status. Scripts never call os.Exit; they return errors, and
// [Context.Error] builds an error carrying an explicit exit code.
//
// All script output goes through the [Context]'s console, which groups
// channeled fragments onto one line. The Runner closes the console with
// a deferred call so a pending line is terminated on every exit path,
// including a panic in the script.
//
// A script can run another script with the same parsed input through
// [Context.RunChild] (by catalog name) or [Context.RunScript]. The child
// gets a Context built from the parent's parsed options and arguments;
// nothing is parsed twice.
package script
