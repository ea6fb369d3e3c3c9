// Package bindx decodes an already-parsed configuration document into a
// typed struct whose fields may be sourced.Value wrappers.
//
// The pipeline runs three stages: defaults (cloned so the caller's template
// is never mutated), decode (mapstructure with a composable hook set), and
// validate. Each stage failure wraps a sentinel error so callers can branch
// with errors.Is while inspecting StageError metadata through errors.As.
//
// Option catalog:
//   - Defaults: WithDefaults, WithDefaultFunc.
//   - Decoder behavior: WithDecoder, WithDecoderConfig, WithDecodeHooks,
//     WithStrictKeys, WithWeakTyping, WithTagName,
//     WithoutDefaultHooks/WithDefaultHooks.
//   - Validation: WithValidator, WithValidatorFunc.
//   - Diagnostics: WithLogger, WithOptionError.
//
// The default hook set is sourced.DecodeHook (literal vs env-descriptor
// dispatch), DurationHook, and TextUnmarshalerHook.
//
// bindx never reads files and never merges layered sources; it consumes the
// generic node tree a document parser already produced. Parse and Format
// cover the byte-to-tree step for JSON, TOML, and YAML payloads.
package bindx
