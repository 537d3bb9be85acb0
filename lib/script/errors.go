// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package script

import "fmt"

// EnvironmentError means the process cannot run a script at all: wrong
// invocation context or missing process capabilities.
type EnvironmentError struct {
	Reason string
	Err    error
}

func (e *EnvironmentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *EnvironmentError) Unwrap() error {
	return e.Err
}

// ChildSpawnError means a child script name is not in the catalog.
type ChildSpawnError struct {
	Name       string
	Suggestion string
}

func (e *ChildSpawnError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("cannot spawn child: %s (did you mean %q?)", e.Name, e.Suggestion)
	}
	return fmt.Sprintf("cannot spawn child: %s", e.Name)
}
