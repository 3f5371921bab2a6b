// Package daemon runs the long-lived OpenSynth HTTP service.
//
// It wires configuration, the catalog, the shared quiz preferences, the view
// registry, and the structure renderer into a single lifecycle with
// flock-based locking to prevent two services sharing one state directory.
// The HTTP handlers stay thin: listing, resolution, and playback logic live in
// the api, catalog, quiz, and viewer packages.
package daemon
