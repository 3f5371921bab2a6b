// Package config loads, normalizes, and validates OpenSynth configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// OPENSYNTH_DATA_DIR and OPENSYNTH_SOURCE_URL. The Config type centralizes the
// data root, quiz defaults, renderer command, and logging knobs so the server
// and CLI resolve them in one pass.
package config
