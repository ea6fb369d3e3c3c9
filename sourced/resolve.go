package sourced

import (
	"fmt"
	"os"
	"reflect"
)

// LookupFunc reads a single environment variable by name. os.LookupEnv
// satisfies this signature.
type LookupFunc func(name string) (string, bool)

// Resolve turns the declared source into a concrete value:
//   - a literal resolves to its content, no I/O performed
//   - an env reference performs a single lookup of the named variable at
//     call time, then parses the raw string into T
//   - unset fails with a no-source error
//
// Resolution never mutates the receiver and never caches: repeated calls
// re-read the process environment, so results can differ across calls when
// the environment changes between them.
func (v Value[T]) Resolve() (T, error) {
	return v.ResolveWith(os.LookupEnv)
}

// ResolveWith is Resolve with an injectable environment lookup. A nil lookup
// falls back to os.LookupEnv.
func (v Value[T]) ResolveWith(lookup LookupFunc) (T, error) {
	switch v.Kind() {
	case SourceLiteral:
		return v.literal, nil
	case SourceEnv:
		if lookup == nil {
			lookup = os.LookupEnv
		}
		raw, ok := lookup(v.envVar)
		if !ok {
			var zero T
			return zero, missingEnvError(v.envVar)
		}
		parsed, err := parseEnvString[T](raw)
		if err != nil {
			var zero T
			return zero, envParseError(err, v.envVar, raw, reflect.TypeFor[T]())
		}
		return parsed, nil
	default:
		var zero T
		return zero, noSourceError()
	}
}

// ResolveOr resolves the value, returning fallback on any failure. An unset
// value always yields fallback.
func (v Value[T]) ResolveOr(fallback T) T {
	out, err := v.Resolve()
	if err != nil {
		return fallback
	}
	return out
}

// ResolveOrZero resolves the value, returning T's zero value on any failure.
func (v Value[T]) ResolveOrZero() T {
	var zero T
	return v.ResolveOr(zero)
}

// ResolveAndValidate resolves the value and runs it through the supplied
// validator. Validation failures surface with the SOURCED_VALIDATION_FAILED
// text code.
func (v Value[T]) ResolveAndValidate(validate func(T) error) (T, error) {
	out, err := v.Resolve()
	if err != nil {
		var zero T
		return zero, err
	}
	if validate != nil {
		if err := validate(out); err != nil {
			var zero T
			return zero, validationError(err)
		}
	}
	return out, nil
}

// MustResolve resolves the value, panicking on failure.
func (v Value[T]) MustResolve() T {
	out, err := v.Resolve()
	if err != nil {
		panic(fmt.Sprintf("failed to resolve sourced value: %v", err))
	}
	return out
}
