// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package option declares, parses and validates the command-line options
// and positional arguments of an administrative script.
//
// A [Registry] holds the recognized long options ([OptionSpec]), their
// single-character short aliases, and the ordered positional argument
// slots ([ArgSpec]). [Parse] consumes the raw tokens that follow the
// program name and produces a [Parsed] result with three views of the
// same input:
//
//   - Options: option name to [Value], where a Value is a boolean
//     [Flag], a [Scalar] string, or, for repeatable options, a
//     [Sequence] in first-seen order.
//   - Ordered: every option occurrence in the exact order it appeared,
//     repeats included, for scripts that replay options as a chain.
//   - Args: positional arguments in order.
//
// Token rules:
//
//	--                 end of options; everything after is positional
//	--name value       value-taking option consumes the next token
//	--name=value       explicit value
//	--name             boolean flag (value "1")
//	-                  positional (conventionally stdin/stdout)
//	-abc               cluster of short flags; a value-taking short
//	                   option consumes the next whole token and ends
//	                   the cluster
//
// Options that are not registered are rejected with [ErrUnknownOption]
// (including a spelling suggestion when one is close) unless the
// registry was created with [AllowUnknown].
//
// [Validate] checks required options and required positional slots and
// reports every violation at once as a [*ValidationError].
package option
