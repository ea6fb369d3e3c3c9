package sourced

import (
	"encoding"
	"fmt"
	"reflect"

	"github.com/go-viper/mapstructure/v2"
)

// nodeDecoder is satisfied by *Value[T] for every T, letting DecodeHook
// populate targets without knowing the concrete instantiation.
type nodeDecoder interface {
	decodeNode(node any) error
}

var nodeDecoderType = reflect.TypeOf((*nodeDecoder)(nil)).Elem()

// decodeNode is the shared document-tree deserializer behind every front
// end. Descriptor detection runs first, literal decoding second, mirroring
// the JSON path.
func (v *Value[T]) decodeNode(node any) error {
	if v == nil {
		return fmt.Errorf("sourced: nil receiver")
	}

	if node == nil {
		*v = Unset[T]()
		return nil
	}

	// already-built values pass through untouched
	switch existing := node.(type) {
	case Value[T]:
		*v = existing
		return nil
	case *Value[T]:
		if existing == nil {
			*v = Unset[T]()
		} else {
			*v = *existing
		}
		return nil
	}

	if name, ok := DescriptorEnvVar(node); ok {
		*v = Env[T](name)
		return nil
	}

	if m, ok := asStringMap(node); ok {
		lit, err := decodeLiteral[T](node)
		if err != nil {
			return invalidDescriptorError(mapKeys(m))
		}
		*v = Literal(lit)
		return nil
	}

	lit, err := decodeLiteral[T](node)
	if err != nil {
		return invalidLiteralError(err, node, reflect.TypeFor[T]())
	}
	*v = Literal(lit)
	return nil
}

// DecodeHook returns a mapstructure hook that decodes arbitrary document
// nodes into Value fields. Compose it into any mapstructure-based decoder so
// structs can mix plain fields with sourced ones.
func DecodeHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if to == nil {
			return data, nil
		}

		if to.Kind() == reflect.Pointer && reflect.PointerTo(to.Elem()).Implements(nodeDecoderType) {
			ptr := reflect.New(to.Elem())
			if err := ptr.Interface().(nodeDecoder).decodeNode(data); err != nil {
				return nil, err
			}
			return ptr.Interface(), nil
		}

		if !reflect.PointerTo(to).Implements(nodeDecoderType) {
			return data, nil
		}
		ptr := reflect.New(to)
		if err := ptr.Interface().(nodeDecoder).decodeNode(data); err != nil {
			return nil, err
		}
		return ptr.Elem().Interface(), nil
	}
}

// decodeLiteral decodes a document node into T with the same weakly typed
// semantics the binding pipeline uses. DecodeHook is composed back in so
// struct-typed literals can nest sourced fields of their own.
func decodeLiteral[T any](node any) (T, error) {
	var out T
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &out,
		TagName:          "koanf",
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			DecodeHook(),
			mapstructure.StringToTimeDurationHookFunc(),
			textUnmarshalerHook(),
		),
	})
	if err != nil {
		return out, err
	}
	if err := decoder.Decode(node); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// textUnmarshalerHook lets string nodes populate encoding.TextUnmarshaler
// literals during node decoding.
func textUnmarshalerHook() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String {
			return data, nil
		}
		result := reflect.New(to).Interface()
		unmarshaller, ok := result.(encoding.TextUnmarshaler)
		if !ok {
			return data, nil
		}
		if err := unmarshaller.UnmarshalText([]byte(reflect.ValueOf(data).String())); err != nil {
			return nil, err
		}
		return result, nil
	}
}

func mapKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
