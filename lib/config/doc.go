// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads the settings file of an administrative script and
// resolves path lookups into it.
//
// Settings are loaded from a single file in a single directory: the
// directory given with the script's --conf option, or <root>/config
// where the installation root comes from SCRIPTKIT_ROOT or, when that is
// unset, two levels above the executable ([InstallRoot]). The first of
// settings.yaml, settings.yml, settings.jsonc and settings.json found in
// that directory is the whole configuration. There is no merging of
// several files and no search along other directories.
//
// String values have ${SCRIPTKIT_ROOT}, ${HOME} and ${VAR:-default}
// patterns expanded after loading.
//
// Lookups use "/" to descend into nested mappings ("db/host") and
// integer components to index lists ("servers/0/name"). A lookup
// returns the caller's default as soon as any component is missing.
//
// Key exports:
//
//   - [Load] -- reads the settings file from a directory
//   - [Settings] -- the loaded tree with [Settings.Get] and typed helpers
//   - [InstallRoot] and [DefaultDir] -- directory discovery
//
// This package depends on no other scriptkit packages.
package config
