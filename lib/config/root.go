// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// RootEnv names the environment variable that overrides the
// installation root.
const RootEnv = "SCRIPTKIT_ROOT"

// InstallRoot returns the installation root: the value of RootEnv when
// set, otherwise the directory two levels above the running executable
// (a binary in <root>/bin resolves to <root>).
func InstallRoot(getenv func(string) string) (string, error) {
	if root := getenv(RootEnv); root != "" {
		return root, nil
	}

	executable, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locating executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(executable); err == nil {
		executable = resolved
	}
	return filepath.Dir(filepath.Dir(executable)), nil
}

// DefaultDir is the configuration directory used when a script is not
// given --conf.
func DefaultDir(root string) string {
	return filepath.Join(root, "config")
}
