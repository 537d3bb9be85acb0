// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
}

func TestLoad_YAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "settings.yaml", `
db:
  host: db.internal
  port: 5432
  replicas:
    - name: r1
    - name: r2
paths:
  cache: ${SCRIPTKIT_ROOT}/cache
  tmp: ${SCRIPTKIT_TEST_UNSET:-/tmp/scripts}
debug: true
`)

	settings, err := Load(dir, WithVariables(map[string]string{"SCRIPTKIT_ROOT": "/opt/scripts"}, nil))
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if settings.Path() != filepath.Join(dir, "settings.yaml") {
		t.Errorf("Path() = %q", settings.Path())
	}
	if got := settings.String("db/host", ""); got != "db.internal" {
		t.Errorf("db/host = %q, want db.internal", got)
	}
	if got := settings.Int("db/port", 0); got != 5432 {
		t.Errorf("db/port = %d, want 5432", got)
	}
	if got := settings.String("db/replicas/1/name", ""); got != "r2" {
		t.Errorf("db/replicas/1/name = %q, want r2", got)
	}
	if got := settings.String("paths/cache", ""); got != "/opt/scripts/cache" {
		t.Errorf("paths/cache = %q, want expanded root", got)
	}
	if got := settings.String("paths/tmp", ""); got != "/tmp/scripts" {
		t.Errorf("paths/tmp = %q, want default expansion", got)
	}
	if !settings.Bool("debug", false) {
		t.Error("debug should be true")
	}
}

func TestLoad_JSONWithComments(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "settings.jsonc", `{
  // primary database
  "db": {"host": "db.internal", "port": 5432,},
}`)

	settings, err := Load(dir, nil)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if got := settings.Int("db/port", 0); got != 5432 {
		t.Errorf("db/port = %d, want 5432", got)
	}
}

func TestLoad_PrefersYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "settings.json", `{"source": "json"}`)
	writeFile(t, dir, "settings.yaml", "source: yaml\n")

	settings, err := Load(dir, nil)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if got := settings.String("source", ""); got != "yaml" {
		t.Errorf("source = %q, want yaml", got)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    error
	}{
		{name: "missing file", want: ErrNoSettings},
		{name: "empty yaml", file: "settings.yaml", content: "# nothing here\n", want: ErrEmptySettings},
		{name: "empty mapping", file: "settings.json", content: "{}", want: ErrEmptySettings},
		{name: "blank json", file: "settings.json", content: "  \n", want: ErrEmptySettings},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			dir := t.TempDir()
			if test.file != "" {
				writeFile(t, dir, test.file, test.content)
			}

			_, err := Load(dir, nil)
			if !errors.Is(err, test.want) {
				t.Fatalf("Load() error = %v, want %v", err, test.want)
			}
			var configErr *ConfigError
			if !errors.As(err, &configErr) {
				t.Fatalf("error %T is not a *ConfigError", err)
			}
			if configErr.Dir != dir {
				t.Errorf("Dir = %q, want %q", configErr.Dir, dir)
			}
		})
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "settings.yaml", "db: [unterminated\n")

	_, err := Load(dir, nil)
	var configErr *ConfigError
	if !errors.As(err, &configErr) {
		t.Fatalf("Load() error = %v, want *ConfigError", err)
	}
}

func TestSettings_Get(t *testing.T) {
	settings := New(map[string]any{
		"a": map[string]any{
			"b": map[string]any{"c": "deep"},
			"n": nil,
		},
		"list": []any{"zero", "one"},
		"top":  "value",
	})

	tests := []struct {
		path string
		want any
	}{
		{"a/b/c", "deep"},
		{"/a/b/c/", "deep"},
		{"top", "value"},
		{"list/1", "one"},
		{"missing", "default"},
		{"a/missing/c", "default"},
		{"a/b/missing", "default"},
		{"a/b/c/d", "default"},
		{"a/n", "default"},
		{"list/7", "default"},
		{"list/x", "default"},
		{"", "default"},
	}
	for _, test := range tests {
		if got := settings.Get(test.path, "default"); got != test.want {
			t.Errorf("Get(%q) = %v, want %v", test.path, got, test.want)
		}
	}
}

func TestSettings_EmptyAlwaysDefaults(t *testing.T) {
	var settings *Settings
	if got := settings.Get("a/b", 42); got != 42 {
		t.Errorf("nil settings Get = %v, want 42", got)
	}
	if !settings.Empty() {
		t.Error("nil settings should be empty")
	}
	if got := New(nil).String("a", "x"); got != "x" {
		t.Errorf("empty settings String = %q, want x", got)
	}
}

func TestSettings_TypedHelpersRejectMismatches(t *testing.T) {
	settings := New(map[string]any{
		"section": map[string]any{"k": "v"},
		"ratio":   1.5,
		"word":    "abc",
	})

	if got := settings.String("section", "fallback"); got != "fallback" {
		t.Errorf("String(section) = %q, want fallback for a mapping", got)
	}
	if got := settings.Int("ratio", 7); got != 7 {
		t.Errorf("Int(ratio) = %d, want fallback for a fraction", got)
	}
	if got := settings.Bool("word", true); got != true {
		t.Errorf("Bool(word) = %v, want fallback", got)
	}
}

func TestExpandVars(t *testing.T) {
	tests := []struct {
		input    string
		vars     map[string]string
		expected string
	}{
		{
			input:    "${SCRIPTKIT_ROOT}/config",
			vars:     map[string]string{"SCRIPTKIT_ROOT": "/opt/scripts"},
			expected: "/opt/scripts/config",
		},
		{
			input:    "${SCRIPTKIT_TEST_MISSING:-default}",
			vars:     map[string]string{},
			expected: "default",
		},
		{
			input:    "${PRESENT:-default}",
			vars:     map[string]string{"PRESENT": "value"},
			expected: "value",
		},
		{
			input:    "${A}/${B}",
			vars:     map[string]string{"A": "first", "B": "second"},
			expected: "first/second",
		},
		{
			input:    "no variables here",
			vars:     map[string]string{},
			expected: "no variables here",
		},
	}

	for _, tt := range tests {
		result := expandVars(tt.input, WithVariables(tt.vars, noEnvironment))
		if result != tt.expected {
			t.Errorf("expandVars(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func noEnvironment(string) string { return "" }

func TestLoad_ExpansionUsesLookupOnly(t *testing.T) {
	t.Setenv("SCRIPTKIT_HOST_ONLY", "from-host")
	dir := t.TempDir()
	writeFile(t, dir, "settings.yaml", "host: ${SCRIPTKIT_HOST_ONLY:-isolated}\nuser: ${SCRIPTKIT_USER}\n")

	environment := map[string]string{"SCRIPTKIT_USER": "ada"}
	settings, err := Load(dir, func(name string) string { return environment[name] })
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if got := settings.String("host", ""); got != "isolated" {
		t.Errorf("host = %q, want the default rather than the host environment", got)
	}
	if got := settings.String("user", ""); got != "ada" {
		t.Errorf("user = %q, want ada", got)
	}

	settings, err = Load(dir, nil)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if got := settings.String("host", ""); got != "from-host" {
		t.Errorf("host with nil lookup = %q, want from-host", got)
	}
}

func TestInstallRoot(t *testing.T) {
	root, err := InstallRoot(func(name string) string {
		if name == RootEnv {
			return "/srv/scripts"
		}
		return ""
	})
	if err != nil {
		t.Fatalf("InstallRoot() failed: %v", err)
	}
	if root != "/srv/scripts" {
		t.Errorf("InstallRoot() = %q, want /srv/scripts", root)
	}

	derived, err := InstallRoot(func(string) string { return "" })
	if err != nil {
		t.Fatalf("InstallRoot() without env failed: %v", err)
	}
	if derived == "" {
		t.Error("derived root should not be empty")
	}

	if got := DefaultDir("/srv/scripts"); got != "/srv/scripts/config" {
		t.Errorf("DefaultDir() = %q", got)
	}
}
