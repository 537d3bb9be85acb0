// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for script packages.
//
// [SettingsDir] writes a settings file into a fresh temporary directory
// for use with --conf. [NewRunner] builds a [script.Runner] whose
// standard streams are buffers, whose environment is a map, whose
// logger discards everything and whose process limits are recorded
// instead of applied. [RunScript] combines the two for the common case
// of running one script against one settings file.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
package testutil
