// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Separator splits lookup paths into components.
const Separator = "/"

// Get resolves path component by component and returns fallback the
// moment a component is missing or holds null. Leading and trailing
// separators are ignored, so "/db/host/" is the same as "db/host".
func (s *Settings) Get(path string, fallback any) any {
	if s.Empty() {
		return fallback
	}

	var current any = s.values
	for _, component := range strings.Split(strings.Trim(path, Separator), Separator) {
		next, found := child(current, component)
		if !found || next == nil {
			return fallback
		}
		current = next
	}
	return current
}

// Has reports whether path resolves to a non-null value.
func (s *Settings) Has(path string) bool {
	return s.Get(path, nil) != nil
}

// String returns the value at path formatted as a string, or fallback.
// Mappings and lists are not strings and yield fallback.
func (s *Settings) String(path, fallback string) string {
	switch value := s.Get(path, nil).(type) {
	case nil:
		return fallback
	case string:
		return value
	case map[string]any, map[any]any, []any:
		return fallback
	default:
		return fmt.Sprint(value)
	}
}

// Int returns the value at path as an int, or fallback when it is
// missing or not a whole number.
func (s *Settings) Int(path string, fallback int) int {
	switch value := s.Get(path, nil).(type) {
	case int:
		return value
	case int64:
		return int(value)
	case uint64:
		return int(value)
	case float64:
		if value == float64(int(value)) {
			return int(value)
		}
	case string:
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

// Bool returns the value at path as a bool, or fallback.
func (s *Settings) Bool(path string, fallback bool) bool {
	switch value := s.Get(path, nil).(type) {
	case bool:
		return value
	case string:
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}

// child looks up one path component in a mapping or list.
func child(node any, component string) (any, bool) {
	switch typed := node.(type) {
	case map[string]any:
		value, found := typed[component]
		return value, found
	case map[any]any:
		for key, value := range typed {
			if fmt.Sprint(key) == component {
				return value, true
			}
		}
		return nil, false
	case []any:
		index, err := strconv.Atoi(component)
		if err != nil || index < 0 || index >= len(typed) {
			return nil, false
		}
		return typed[index], true
	default:
		return nil, false
	}
}
