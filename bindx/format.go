package bindx

import (
	"path/filepath"
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/v2"
)

// Format identifies a supported document encoding. bindx only parses raw
// bytes a caller already holds; reading files stays with the caller.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

func (f Format) String() string {
	return string(f)
}

func (f Format) Valid() error {
	switch f {
	case FormatJSON, FormatYAML, FormatTOML:
		return nil
	default:
		return errors.New("invalid document format", errors.CategoryValidation).
			WithTextCode("INVALID_DOCUMENT_FORMAT").
			WithMetadata(map[string]any{
				"format": string(f),
				"valid_formats": []string{
					string(FormatJSON),
					string(FormatYAML),
					string(FormatTOML),
				},
			})
	}
}

// parser returns the koanf parser for a format Valid has already accepted.
func (f Format) parser() koanf.Parser {
	switch f {
	case FormatTOML:
		return toml.Parser()
	case FormatYAML:
		return yaml.Parser()
	default:
		return json.Parser()
	}
}

// InferFormat guesses the document format from a file path extension,
// defaulting to JSON.
func InferFormat(path string, defaultFormat ...Format) Format {
	ext := filepath.Ext(path)
	switch strings.ToLower(ext) {
	case ".toml":
		return FormatTOML
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	}

	if len(defaultFormat) > 0 {
		return defaultFormat[0]
	}

	return FormatJSON
}

// Parse turns a raw document payload into the generic node tree Build
// consumes.
func Parse(format Format, data []byte) (map[string]any, error) {
	if err := format.Valid(); err != nil {
		return nil, err
	}
	parsed, err := format.parser().Unmarshal(data)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to parse document").
			WithTextCode("DOCUMENT_PARSE_FAILED").
			WithMetadata(map[string]any{
				"format": string(format),
				"bytes":  len(data),
			})
	}
	return parsed, nil
}
