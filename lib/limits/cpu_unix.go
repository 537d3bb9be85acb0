// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build linux || darwin

package limits

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// removeCPULimit lifts the soft CPU time limit to the hard limit. An
// unprivileged process cannot go beyond the hard limit.
func removeCPULimit() error {
	var limit unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_CPU, &limit); err != nil {
		return fmt.Errorf("reading RLIMIT_CPU: %w", err)
	}
	if limit.Cur == limit.Max {
		return nil
	}
	limit.Cur = limit.Max
	if err := unix.Setrlimit(unix.RLIMIT_CPU, &limit); err != nil {
		return fmt.Errorf("raising RLIMIT_CPU: %w", err)
	}
	return nil
}
