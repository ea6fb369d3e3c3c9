package bindx

import (
	"encoding"
	"reflect"

	"github.com/go-viper/mapstructure/v2"
	"github.com/goliatone/go-sourced/sourced"
)

// DefaultDecodeHooks returns the standard hook set (sourced values, duration, text unmarshaler).
func DefaultDecodeHooks() []mapstructure.DecodeHookFunc {
	return []mapstructure.DecodeHookFunc{
		sourced.DecodeHook(),
		DurationHook(),
		TextUnmarshalerHook(),
	}
}

// DurationHook converts strings (e.g., "5s") into time.Duration.
func DurationHook() mapstructure.DecodeHookFunc {
	return mapstructure.StringToTimeDurationHookFunc()
}

// TextUnmarshalerHook mirrors koanf's helper allowing encoding.TextUnmarshaler targets.
func TextUnmarshalerHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String {
			return data, nil
		}
		result := reflect.New(to).Interface()
		unmarshaller, ok := result.(encoding.TextUnmarshaler)
		if !ok {
			return data, nil
		}

		dataVal := reflect.ValueOf(data)
		text := []byte(dataVal.String())
		if from.Kind() == to.Kind() {
			ptrVal := reflect.New(dataVal.Type())
			if ptrVal.Elem().CanSet() {
				ptrVal.Elem().Set(dataVal)
			}
			for _, candidate := range []reflect.Value{dataVal, ptrVal} {
				if marshaller, ok := candidate.Interface().(encoding.TextMarshaler); ok {
					marshaled, err := marshaller.MarshalText()
					if err != nil {
						return nil, err
					}
					text = marshaled
					break
				}
			}
		}

		if err := unmarshaller.UnmarshalText(text); err != nil {
			return nil, err
		}
		return result, nil
	}
}
