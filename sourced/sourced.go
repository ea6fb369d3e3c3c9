package sourced

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/mitchellh/copystructure"
)

// DescriptorKey is the mapping key that marks an environment source
// descriptor, e.g. {"env": "DATABASE_URL"}.
const DescriptorKey = "env"

// SourceKind identifies the declared origin of a configuration value.
// The set is open ended so future descriptor shapes (flags, secret stores)
// can be added without breaking existing documents.
type SourceKind string

const (
	SourceUnset   SourceKind = "unset"
	SourceLiteral SourceKind = "literal"
	SourceEnv     SourceKind = "env"
)

func (s SourceKind) String() string {
	return string(s)
}

// Value carries a single configuration field together with its declared
// source. The zero value is unset so callers can detect omission without
// extra bookkeeping, the variant is fixed at construction and never mutated
// afterwards.
type Value[T any] struct {
	kind    SourceKind
	literal T
	envVar  string
}

// Literal builds a Value whose content was given directly in the document.
func Literal[T any](v T) Value[T] {
	registerCopiers[T]()
	return Value[T]{kind: SourceLiteral, literal: v}
}

// Env builds a Value that reads the named environment variable at resolve
// time.
func Env[T any](name string) Value[T] {
	registerCopiers[T]()
	return Value[T]{kind: SourceEnv, envVar: name}
}

// Unset builds a Value with no declared source. Equivalent to the zero value.
func Unset[T any]() Value[T] {
	registerCopiers[T]()
	return Value[T]{kind: SourceUnset}
}

var copierMu sync.Mutex

// registerCopiers teaches copystructure how to clone this instantiation.
// The fields are unexported, a plain walk would zero them out during deep
// copies, and the wrapper is immutable so the identity copy is correct.
func registerCopiers[T any]() {
	valueType := reflect.TypeFor[Value[T]]()

	copierMu.Lock()
	defer copierMu.Unlock()
	if _, ok := copystructure.Copiers[valueType]; ok {
		return
	}
	copystructure.Copiers[valueType] = func(v any) (any, error) {
		return v, nil
	}
	copystructure.Copiers[reflect.PointerTo(valueType)] = func(v any) (any, error) {
		ptr, ok := v.(*Value[T])
		if !ok || ptr == nil {
			return (*Value[T])(nil), nil
		}
		clone := *ptr
		return &clone, nil
	}
}

// Kind reports the declared source. The zero value reports SourceUnset.
func (v Value[T]) Kind() SourceKind {
	if v.kind == "" {
		return SourceUnset
	}
	return v.kind
}

// IsSet reports whether any source was declared.
func (v Value[T]) IsSet() bool {
	return v.Kind() != SourceUnset
}

// IsLiteral reports whether the value was given directly in the document.
func (v Value[T]) IsLiteral() bool {
	return v.Kind() == SourceLiteral
}

// IsEnv reports whether the value is sourced from an environment variable.
func (v Value[T]) IsEnv() bool {
	return v.Kind() == SourceEnv
}

// EnvVar returns the declared environment variable name, if any.
func (v Value[T]) EnvVar() (string, bool) {
	if !v.IsEnv() {
		return "", false
	}
	return v.envVar, true
}

// LiteralValue returns the literal content without performing resolution.
func (v Value[T]) LiteralValue() (T, bool) {
	if !v.IsLiteral() {
		var zero T
		return zero, false
	}
	return v.literal, true
}

// String returns a human readable representation for debugging.
func (v Value[T]) String() string {
	switch v.Kind() {
	case SourceLiteral:
		return fmt.Sprintf("%v", v.literal)
	case SourceEnv:
		return "env:" + v.envVar
	default:
		return "<unset>"
	}
}

// DescriptorEnvVar reports whether node is a recognized environment source
// descriptor: a mapping with exactly the DescriptorKey key holding a
// non-empty string. Descriptor detection takes priority over literal
// decoding, so a map-typed T never captures a well-formed descriptor.
func DescriptorEnvVar(node any) (string, bool) {
	m, ok := asStringMap(node)
	if !ok || len(m) != 1 {
		return "", false
	}
	raw, ok := m[DescriptorKey]
	if !ok {
		return "", false
	}
	name, ok := raw.(string)
	if !ok || strings.TrimSpace(name) == "" {
		return "", false
	}
	return name, true
}

// asStringMap normalizes the mapping node shapes produced by the supported
// document parsers. YAML front ends may surface map[any]any.
func asStringMap(node any) (map[string]any, bool) {
	switch m := node.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			ks, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[ks] = val
		}
		return out, true
	}
	return nil, false
}
