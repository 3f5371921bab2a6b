// Package main hosts the OpenSynth CLI entrypoint and command graph.
//
// The Cobra-based command tree runs the HTTP service, browses the synthesis
// library, plays a synthesis as a terminal slideshow, manages quiz settings,
// and reconciles the index step counts. It centralizes configuration
// resolution and logger setup so subcommands can focus on output.
//
// Keep this package lean: behaviour lives in the internal packages and is
// surfaced here through dedicated commands or flags.
package main
