// Package sourced provides a typed configuration value that carries its
// declared origin alongside the value itself.
//
// A Value[T] is built from a configuration document and records exactly one
// source: a literal given directly in the document, a reference to an
// environment variable (declared with the `{env: NAME}` descriptor shape),
// or nothing at all. Resolution is a separate, explicit step: callers invoke
// Resolve (or one of its variants) to turn the declared source into a
// concrete T or a typed failure. There is no hidden precedence chain; each
// field has exactly one source, always traceable to the document text.
//
// Front ends:
//   - encoding/json via UnmarshalJSON/MarshalJSON.
//   - Parsed document trees (koanf, confmap, etc.) via DecodeHook, which
//     plugs into any mapstructure-based decoder such as bindx.Build.
//
// Resolution is read-only and never cached: resolving the same env-sourced
// Value twice can yield different results if the process environment changed
// between calls. Callers needing a stable snapshot resolve once and keep the
// result.
package sourced
