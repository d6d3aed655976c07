// Package cli implements the rdvwatch command.
//
// A single Cobra command runs one watch cycle end to end: it wires the
// configured page-snapshot sources, the extraction pipeline, the snapshot
// store, and the notifier, with flags to override the window, force console
// output, or point at a different source catalogue.
package cli
