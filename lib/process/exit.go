// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"errors"
	"fmt"
	"os"
)

// ExitError signals a non-zero exit code without printing an extra
// error message. The code that returns it is expected to have already
// written its own output (help text, error lines).
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// ExitCode returns the exit code. main() checks for this interface on
// returned errors to distinguish "handled non-zero exit" from
// "unexpected error to display".
func (e *ExitError) ExitCode() int {
	return e.Code
}

// Exit returns an *ExitError for code, or nil when code is 0.
func Exit(code int) error {
	if code == 0 {
		return nil
	}
	return &ExitError{Code: code}
}

// Code maps err to an exit status: 0 for nil, the carried code for
// anything implementing ExitCode() int, and 1 otherwise.
func Code(err error) int {
	if err == nil {
		return 0
	}
	var coder interface{ ExitCode() int }
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}
	return 1
}

// Handled reports whether err carries an exit code, meaning whoever
// returned it has already written its own output.
func Handled(err error) bool {
	var coder interface{ ExitCode() int }
	return errors.As(err, &coder)
}

// Fatal writes "error: err" to stderr and exits with code 1. Use it in
// main() for errors that occur before a script console exists.
func Fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
