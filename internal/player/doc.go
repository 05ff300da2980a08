// Package player drives a compiled timeline in real time.
//
// A Player runs a single goroutine holding a min-heap of pending events:
// one per scheduled step at origin+StartDelay and exactly one completion
// event at origin+TotalDuration. Every Play starts a new generation and
// returns a Scope the host owns. Starting a new generation or cancelling
// a Scope drops every pending event of the old generation, so a stale
// "sequence complete" can never fire after a newer sequence has started.
package player
