// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package option

import "strings"

// Kind identifies which variant a [Value] holds.
type Kind int

const (
	// KindNone is the zero Value: the option was not supplied.
	KindNone Kind = iota
	// KindFlag is a boolean option given without a value.
	KindFlag
	// KindScalar is a single string value.
	KindScalar
	// KindSequence is the accumulated values of a repeatable option.
	KindSequence
)

// String returns the variant name.
func (k Kind) String() string {
	switch k {
	case KindFlag:
		return "flag"
	case KindScalar:
		return "scalar"
	case KindSequence:
		return "sequence"
	default:
		return "none"
	}
}

// FlagValue is the string form of a boolean flag.
const FlagValue = "1"

// Value is the parsed value of an option. It is a tagged variant:
// exactly one of Flag, Scalar or Sequence. Values are immutable; the
// parser builds new sequences instead of mutating shared slices.
type Value struct {
	kind   Kind
	scalar string
	items  []string
}

// Flag returns a boolean flag value.
func Flag() Value {
	return Value{kind: KindFlag}
}

// Scalar returns a single string value.
func Scalar(s string) Value {
	return Value{kind: KindScalar, scalar: s}
}

// Sequence returns a sequence holding a copy of items.
func Sequence(items ...string) Value {
	copied := make([]string, len(items))
	copy(copied, items)
	return Value{kind: KindSequence, items: copied}
}

// Kind reports which variant v holds.
func (v Value) Kind() Kind {
	return v.kind
}

// IsSet reports whether v holds any variant.
func (v Value) IsSet() bool {
	return v.kind != KindNone
}

// String returns the scalar string, "1" for a flag, the last element of
// a sequence, or "" for the zero Value.
func (v Value) String() string {
	switch v.kind {
	case KindFlag:
		return FlagValue
	case KindScalar:
		return v.scalar
	case KindSequence:
		if len(v.items) == 0 {
			return ""
		}
		return v.items[len(v.items)-1]
	default:
		return ""
	}
}

// Strings returns every value v carries: the sequence elements, or a
// one-element slice for a flag or scalar. The returned slice is a copy.
func (v Value) Strings() []string {
	switch v.kind {
	case KindFlag, KindScalar:
		return []string{v.String()}
	case KindSequence:
		copied := make([]string, len(v.items))
		copy(copied, v.items)
		return copied
	default:
		return nil
	}
}

// Len is the number of values v carries.
func (v Value) Len() int {
	switch v.kind {
	case KindFlag, KindScalar:
		return 1
	case KindSequence:
		return len(v.items)
	default:
		return 0
	}
}

// appended returns a sequence with s added after the existing items.
func (v Value) appended(s string) Value {
	items := make([]string, len(v.items), len(v.items)+1)
	copy(items, v.items)
	return Value{kind: KindSequence, items: append(items, s)}
}

// GoString renders v for debugging output.
func (v Value) GoString() string {
	switch v.kind {
	case KindFlag:
		return "Flag"
	case KindScalar:
		return "Scalar(" + v.scalar + ")"
	case KindSequence:
		return "Sequence(" + strings.Join(v.items, ", ") + ")"
	default:
		return "None"
	}
}

// MarshalYAML renders flags as true, scalars as strings and sequences as
// lists. Used by the lifecycle's state dump.
func (v Value) MarshalYAML() (any, error) {
	switch v.kind {
	case KindFlag:
		return true, nil
	case KindScalar:
		return v.scalar, nil
	case KindSequence:
		return v.Strings(), nil
	default:
		return nil, nil
	}
}

// Occurrence is one option assignment in input order.
type Occurrence struct {
	Name  string `yaml:"name"`
	Value Value  `yaml:"value"`
}
