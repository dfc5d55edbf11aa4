// Package services defines shared utilities consumed by the generator pipeline
// and its collaborators.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, stage names, and entry names for
//     logging.
//   - Structured error markers plus the Wrap helper that separate fatal
//     failures (configuration, structural) from per-entry skips.
//
// Use these helpers when wiring new pipeline steps so error handling and
// observability stay uniform.
package services
