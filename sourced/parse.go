package sourced

import (
	"encoding"
	"encoding/json"
	"reflect"
	"strconv"
	"strings"
	"time"
)

var durationType = reflect.TypeOf(time.Duration(0))

// parseEnvString converts the raw string read from an environment variable
// into T. Types implementing encoding.TextUnmarshaler take precedence, then
// time.Duration and the native scalar kinds. Structured targets (slices,
// maps, structs) accept JSON payloads, matching how environment providers
// conventionally pair with a JSON parser.
func parseEnvString[T any](raw string) (T, error) {
	var out T

	if tu, ok := any(&out).(encoding.TextUnmarshaler); ok {
		if err := tu.UnmarshalText([]byte(raw)); err != nil {
			var zero T
			return zero, err
		}
		return out, nil
	}

	rv := reflect.ValueOf(&out).Elem()
	switch rv.Kind() {
	case reflect.String:
		rv.SetString(raw)
	case reflect.Bool:
		parsed, err := parseBoolString(raw)
		if err != nil {
			var zero T
			return zero, err
		}
		rv.SetBool(parsed)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if rv.Type() == durationType {
			d, err := time.ParseDuration(strings.TrimSpace(raw))
			if err != nil {
				var zero T
				return zero, err
			}
			rv.SetInt(int64(d))
			break
		}
		parsed, err := strconv.ParseInt(strings.TrimSpace(raw), 10, rv.Type().Bits())
		if err != nil {
			var zero T
			return zero, err
		}
		rv.SetInt(parsed)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		parsed, err := strconv.ParseUint(strings.TrimSpace(raw), 10, rv.Type().Bits())
		if err != nil {
			var zero T
			return zero, err
		}
		rv.SetUint(parsed)
	case reflect.Float32, reflect.Float64:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(raw), rv.Type().Bits())
		if err != nil {
			var zero T
			return zero, err
		}
		rv.SetFloat(parsed)
	default:
		if err := json.Unmarshal([]byte(raw), &out); err != nil {
			var zero T
			return zero, err
		}
	}

	return out, nil
}

// parseBoolString parses canonical and common boolean aliases.
func parseBoolString(s string) (bool, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch s {
	case "1", "t", "true", "y", "yes", "on":
		return true, nil
	case "0", "f", "false", "n", "no", "off":
		return false, nil
	default:
		return strconv.ParseBool(s)
	}
}
