// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// SettingsDir creates a temporary directory holding settings.yaml with
// content and returns its path. The directory is removed when the test
// completes.
func SettingsDir(t *testing.T, content string) string {
	t.Helper()
	directory := t.TempDir()
	WriteFile(t, filepath.Join(directory, "settings.yaml"), content)
	return directory
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("creating %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}
