// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package limits applies the resource limits of an administrative
// script: the Go runtime's soft memory limit, selected with the
// --memory-limit option, and the process CPU time limit, which scripts
// always run without.
package limits

import (
	"errors"
	"fmt"
	"math"
	"runtime/debug"
	"strings"

	"github.com/dustin/go-humanize"
)

// Mode selects how a [MemoryLimit] is applied.
type Mode int

const (
	// Unlimited removes the memory limit ("max").
	Unlimited Mode = iota
	// Untouched leaves the runtime's limit as it is ("default").
	Untouched
	// Explicit sets a limit of Bytes.
	Explicit
)

// MemoryLimit is a parsed --memory-limit value.
type MemoryLimit struct {
	Mode  Mode
	Bytes int64
}

func (m MemoryLimit) String() string {
	switch m.Mode {
	case Unlimited:
		return "max"
	case Untouched:
		return "default"
	default:
		return humanize.IBytes(uint64(m.Bytes))
	}
}

// ErrInvalidMemoryLimit is returned for values ParseMemoryLimit cannot
// read.
var ErrInvalidMemoryLimit = errors.New("invalid memory limit")

// ParseMemoryLimit reads "max" (or "-1"), "default", or a size such as
// "512M", "2GiB" or "1048576". Quotes and spaces are ignored, so
// "512 M" is 512M. A single-letter K/M/G suffix is binary (512M is 512 MiB);
// longer suffixes follow go-humanize, so "2 GB" is 2*10^9 bytes.
func ParseMemoryLimit(value string) (MemoryLimit, error) {
	trimmed := strings.Trim(value, "\" '")
	switch strings.ToLower(trimmed) {
	case "max", "-1":
		return MemoryLimit{Mode: Unlimited}, nil
	case "default":
		return MemoryLimit{Mode: Untouched}, nil
	case "":
		return MemoryLimit{}, fmt.Errorf("%w: empty value", ErrInvalidMemoryLimit)
	}

	// "512 M" means the same as "512M".
	trimmed = strings.Join(strings.Fields(trimmed), "")
	if last := trimmed[len(trimmed)-1]; strings.ContainsRune("kKmMgGtT", rune(last)) &&
		len(trimmed) > 1 && trimmed[len(trimmed)-2] >= '0' && trimmed[len(trimmed)-2] <= '9' {
		trimmed += "iB"
	}

	bytes, err := humanize.ParseBytes(trimmed)
	if err != nil {
		return MemoryLimit{}, fmt.Errorf("%w: %q: %v", ErrInvalidMemoryLimit, value, err)
	}
	if bytes == 0 || bytes > math.MaxInt64 {
		return MemoryLimit{}, fmt.Errorf("%w: %q is out of range", ErrInvalidMemoryLimit, value)
	}
	return MemoryLimit{Mode: Explicit, Bytes: int64(bytes)}, nil
}

// Limiter changes process limits. [System] is the real implementation;
// tests substitute a recorder.
type Limiter interface {
	// SetMemoryLimit sets the runtime soft memory limit and returns the
	// previous one.
	SetMemoryLimit(bytes int64) int64

	// RemoveTimeLimit raises the CPU time limit as far as the process
	// is allowed to.
	RemoveTimeLimit() error
}

// System applies limits to the running process.
type System struct{}

// SetMemoryLimit calls debug.SetMemoryLimit.
func (System) SetMemoryLimit(bytes int64) int64 {
	return debug.SetMemoryLimit(bytes)
}

// RemoveTimeLimit raises RLIMIT_CPU to its hard maximum where the
// platform supports it.
func (System) RemoveTimeLimit() error {
	return removeCPULimit()
}

// ApplyMemory applies limit through limiter. Applying the same limit
// twice is harmless, which lets the lifecycle re-apply it after
// configuration has loaded.
func ApplyMemory(limiter Limiter, limit MemoryLimit) {
	switch limit.Mode {
	case Unlimited:
		limiter.SetMemoryLimit(math.MaxInt64)
	case Explicit:
		limiter.SetMemoryLimit(limit.Bytes)
	}
}
