package sourced

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
)

type envDescriptor struct {
	Env string `json:"env"`
}

// MarshalJSON round-trips the declared source: literals marshal as the raw
// value, env references as the {"env": name} descriptor, unset as null.
func (v Value[T]) MarshalJSON() ([]byte, error) {
	switch v.Kind() {
	case SourceLiteral:
		return json.Marshal(v.literal)
	case SourceEnv:
		return json.Marshal(envDescriptor{Env: v.envVar})
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON implements the two-phase deserialization contract: a strict
// descriptor shape is attempted first, then the node is decoded as a literal
// of T. Descriptor recognition goes through DescriptorEnvVar so the JSON and
// node-tree front ends agree on the exact key and name rules. Descriptor
// priority means {"env": "NAME"} declares an env source even when T is
// itself a mapping type. null and absent nodes decode to unset.
func (v *Value[T]) UnmarshalJSON(data []byte) error {
	if v == nil {
		return fmt.Errorf("sourced: nil receiver")
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*v = Unset[T]()
		return nil
	}

	if trimmed[0] == '{' {
		var obj map[string]any
		if err := json.Unmarshal(trimmed, &obj); err == nil {
			if name, ok := DescriptorEnvVar(obj); ok {
				*v = Env[T](name)
				return nil
			}
		}

		var lit T
		if err := json.Unmarshal(trimmed, &lit); err == nil {
			*v = Literal(lit)
			return nil
		}
		return invalidDescriptorError(mapKeys(obj))
	}

	var lit T
	if err := json.Unmarshal(trimmed, &lit); err != nil {
		return invalidLiteralError(err, string(trimmed), reflect.TypeFor[T]())
	}
	*v = Literal(lit)
	return nil
}
