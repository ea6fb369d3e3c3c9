package sourced

import (
	goerrors "errors"
	"fmt"
	"reflect"
	"sort"

	"github.com/goliatone/go-errors"
)

// Text codes attached to every error this package produces. Deserialization
// codes surface at document-load time, resolution codes only when Resolve is
// explicitly called.
const (
	TextCodeInvalidDescriptor = "SOURCED_INVALID_DESCRIPTOR"
	TextCodeInvalidLiteral    = "SOURCED_INVALID_LITERAL"
	TextCodeEnvMissing        = "SOURCED_ENV_MISSING"
	TextCodeEnvParse          = "SOURCED_ENV_PARSE"
	TextCodeNoSource          = "SOURCED_NO_SOURCE"
	TextCodeValidationFailed  = "SOURCED_VALIDATION_FAILED"
)

func invalidDescriptorError(keys []string) error {
	sort.Strings(keys)
	return errors.New("unrecognized source descriptor", errors.CategoryValidation).
		WithTextCode(TextCodeInvalidDescriptor).
		WithMetadata(map[string]any{
			"keys":           keys,
			"descriptor_key": DescriptorKey,
		})
}

func invalidLiteralError(err error, node any, target reflect.Type) error {
	return errors.Wrap(err, errors.CategoryValidation, "malformed literal value").
		WithTextCode(TextCodeInvalidLiteral).
		WithMetadata(map[string]any{
			"node_type":   fmt.Sprintf("%T", node),
			"target_type": target.String(),
		})
}

func missingEnvError(name string) error {
	return errors.New("environment variable is not set", errors.CategoryOperation).
		WithTextCode(TextCodeEnvMissing).
		WithMetadata(map[string]any{
			"env_var": name,
		})
}

func envParseError(err error, name, raw string, target reflect.Type) error {
	return errors.Wrap(err, errors.CategoryOperation, "failed to parse environment variable").
		WithTextCode(TextCodeEnvParse).
		WithMetadata(map[string]any{
			"env_var":     name,
			"raw_value":   raw,
			"target_type": target.String(),
		})
}

func noSourceError() error {
	return errors.New("no source declared for value", errors.CategoryOperation).
		WithTextCode(TextCodeNoSource)
}

func validationError(err error) error {
	return errors.Wrap(err, errors.CategoryValidation, "resolved value failed validation").
		WithTextCode(TextCodeValidationFailed)
}

// IsMissingEnvVar reports whether err describes an absent environment
// variable for a declared env source.
func IsMissingEnvVar(err error) bool {
	return hasTextCode(err, TextCodeEnvMissing)
}

// IsParseFailure reports whether err describes an environment value that
// could not be converted into the target type.
func IsParseFailure(err error) bool {
	return hasTextCode(err, TextCodeEnvParse)
}

// IsNoSource reports whether err came from resolving an unset value.
func IsNoSource(err error) bool {
	return hasTextCode(err, TextCodeNoSource)
}

// IsDeserialization reports whether err was produced while decoding a
// document node, as opposed to a resolution failure.
func IsDeserialization(err error) bool {
	return hasTextCode(err, TextCodeInvalidDescriptor) ||
		hasTextCode(err, TextCodeInvalidLiteral)
}

func hasTextCode(err error, code string) bool {
	var rich *errors.Error
	if !goerrors.As(err, &rich) {
		return false
	}
	return rich.TextCode == code
}
