// Package seqlib compiles declarative terminal animation scripts into
// absolute timelines.
//
// A script is an ordered list of Steps. Typing steps are revealed one
// character at a time, instant steps appear at once and hold. Compile
// places every step on a single time axis measured from the sequence
// origin and reports the TotalDuration after which the host may hide its
// splash screen or transition overlay.
//
// The package does no I/O and keeps no state between calls; playback,
// cancellation and rendering live in the host.
package seqlib
