// Package config loads, normalizes, and validates deepclean configuration data.
//
// It supplies repository defaults (the archive quarantine, target layout,
// clutter list, and import replacement table of the original migration),
// expands user paths including tilde shortcuts, reads TOML files, and honours
// DEEPCLEAN_* environment overrides. Layout paths are kept relative to the
// project root; the reorganizer joins them at run time.
//
// Always obtain settings through this package so downstream code receives
// cleaned paths, canonical log formats, and clear validation errors.
package config
