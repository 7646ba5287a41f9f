// Package playback contains the Driver, which owns the shared timeline clock
// and evaluates the node graph once per tick.
//
// The driver is single-threaded. An external clock calls Advance(dt) on one
// goroutine; media notifications and remote commands must be delivered on
// that same goroutine between ticks. Each Advance:
//
//  1. drops destroyed nodes
//  2. fires update callbacks
//  3. recomputes the stall condition
//  4. fires timeline callbacks and moves the clock
//  5. advances every source
//  6. updates and renders every processing node in topological order
package playback
