// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// FileNames lists the settings files Load looks for, in order. The
// first one that exists is used.
var FileNames = []string{"settings.yaml", "settings.yml", "settings.jsonc", "settings.json"}

var (
	// ErrNoSettings means none of FileNames exists in the directory.
	ErrNoSettings = errors.New("no settings file found")

	// ErrEmptySettings means the settings file decoded to nothing.
	ErrEmptySettings = errors.New("settings file is empty")
)

// ConfigError reports a settings file that could not be loaded. Err is
// ErrNoSettings, ErrEmptySettings, or the read/decode failure.
type ConfigError struct {
	Dir  string
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	location := e.Path
	if location == "" {
		location = e.Dir
	}
	return fmt.Sprintf("%s: %v\nA settings file (%s) must exist and be readable in the configuration directory.\nUse --conf to specify it.",
		location, e.Err, strings.Join(FileNames, ", "))
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Settings is a loaded settings tree. The zero value and nil are empty
// settings on which every lookup returns its default.
type Settings struct {
	values map[string]any
	path   string
}

// New wraps an existing tree. Used for tests and for child scripts that
// share their parent's settings.
func New(values map[string]any) *Settings {
	return &Settings{values: values}
}

// Load reads the first settings file found in dir. lookup resolves
// ${NAME} references in string values; nil means os.Getenv.
func Load(dir string, lookup func(string) string) (*Settings, error) {
	if lookup == nil {
		lookup = os.Getenv
	}
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, &ConfigError{Dir: dir, Path: path, Err: err}
		}

		values, err := decode(path, data)
		if err != nil {
			return nil, &ConfigError{Dir: dir, Path: path, Err: err}
		}
		if len(values) == 0 {
			return nil, &ConfigError{Dir: dir, Path: path, Err: ErrEmptySettings}
		}

		expandTree(values, lookup)
		return &Settings{values: values, path: path}, nil
	}
	return nil, &ConfigError{Dir: dir, Err: ErrNoSettings}
}

// decode parses YAML or JSON-with-comments depending on the extension.
func decode(path string, data []byte) (map[string]any, error) {
	var values map[string]any
	switch filepath.Ext(path) {
	case ".json", ".jsonc":
		if len(strings.TrimSpace(string(data))) == 0 {
			return nil, nil
		}
		if err := json.Unmarshal(jsonc.ToJSON(data), &values); err != nil {
			return nil, fmt.Errorf("parsing settings: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &values); err != nil {
			return nil, fmt.Errorf("parsing settings: %w", err)
		}
	}
	return values, nil
}

// Path returns the file the settings were loaded from, or "".
func (s *Settings) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Empty reports whether the tree has no top-level keys.
func (s *Settings) Empty() bool {
	return s == nil || len(s.values) == 0
}

// Values returns the underlying tree. Callers must not modify it.
func (s *Settings) Values() map[string]any {
	if s == nil {
		return nil
	}
	return s.values
}

// expandTree applies expandVars to every string in the tree, in place.
func expandTree(values map[string]any, lookup func(string) string) {
	for key, value := range values {
		values[key] = expandValue(value, lookup)
	}
}

func expandValue(value any, lookup func(string) string) any {
	switch typed := value.(type) {
	case string:
		return expandVars(typed, lookup)
	case map[string]any:
		expandTree(typed, lookup)
		return typed
	case map[any]any:
		for key, element := range typed {
			typed[key] = expandValue(element, lookup)
		}
		return typed
	case []any:
		for i, element := range typed {
			typed[i] = expandValue(element, lookup)
		}
		return typed
	default:
		return value
	}
}

// expandVars expands ${VAR} and ${VAR:-default} patterns.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, lookup func(string) string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		if value := lookup(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// WithVariables returns a lookup that answers from variables first and
// then from fallback. A nil fallback means os.Getenv.
func WithVariables(variables map[string]string, fallback func(string) string) func(string) string {
	if fallback == nil {
		fallback = os.Getenv
	}
	return func(name string) string {
		if value, ok := variables[name]; ok && value != "" {
			return value
		}
		return fallback(name)
	}
}
