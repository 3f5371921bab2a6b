// Package preflight provides readiness checks for the filesystem paths,
// data source, and external tools that OpenSynth depends on.
//
// These checks run in two contexts:
//   - "opensynth serve" runs RunAll at startup and logs every failure. Failures
//     are not fatal: the catalog degrades to an empty listing and diagrams
//     degrade to inline errors.
//   - "opensynth status" prints the same results as a table.
package preflight
