// Package sources inspects a parsed configuration tree and reports the
// declared origin of every field without resolving anything.
package sources

import (
	"os"
	"sort"

	"github.com/goliatone/go-sourced/sourced"
	"github.com/knadh/koanf/v2"
)

// Origin classifies how a key declares its value.
type Origin string

const (
	OriginLiteral Origin = "literal"
	OriginEnv     Origin = "env"
)

func (o Origin) String() string {
	return string(o)
}

// Declared describes one configuration key and its declared source. EnvVar
// is populated only for env origins.
type Declared struct {
	Key    string
	Origin Origin
	EnvVar string
}

// Scan walks the koanf tree and reports every leaf with its declared
// origin. Env descriptor mappings ({env: NAME}) classify as env, everything
// else as literal. Keys come back in deterministic order.
func Scan(k *koanf.Koanf) []Declared {
	if k == nil {
		return nil
	}
	return ScanMap(k.Raw())
}

// ScanMap is Scan over a raw node tree, using "." as the key delimiter.
func ScanMap(raw map[string]any) []Declared {
	var out []Declared
	walk("", raw, ".", &out)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Key < out[j].Key
	})
	return out
}

func walk(prefix string, data map[string]any, delim string, out *[]Declared) {
	for k, v := range data {
		key := k
		if prefix != "" {
			key = prefix + delim + k
		}

		if name, ok := sourced.DescriptorEnvVar(v); ok {
			*out = append(*out, Declared{Key: key, Origin: OriginEnv, EnvVar: name})
			continue
		}

		if nested, ok := v.(map[string]any); ok {
			walk(key, nested, delim, out)
			continue
		}

		*out = append(*out, Declared{Key: key, Origin: OriginLiteral})
	}
}

// Unresolvable returns the declared env references whose variable is absent
// from the current environment. The lookup is read-only; nothing is
// resolved or mutated. A nil lookup falls back to os.LookupEnv.
func Unresolvable(k *koanf.Koanf, lookup sourced.LookupFunc) []Declared {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	var out []Declared
	for _, d := range Scan(k) {
		if d.Origin != OriginEnv {
			continue
		}
		if _, ok := lookup(d.EnvVar); !ok {
			out = append(out, d)
		}
	}
	return out
}
