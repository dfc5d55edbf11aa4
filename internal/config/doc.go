// Package config loads, normalizes, and validates clashsub configuration data.
//
// It supplies repository defaults, expands the workspace root (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// GITHUB_REPOSITORY. The Config type centralizes every knob the generator and
// CLI need, so input files, output directories, and the published repository
// location are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// absolute paths, canonical log formats, and clear validation errors.
package config
