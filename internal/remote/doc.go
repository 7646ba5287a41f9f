// Package remote relays transport commands from a socket.io control server
// to a playback driver and publishes the driver's state back to it.
//
// Socket.io listeners run on the client's own goroutines, so commands are
// only queued here. The owner of the driver drains Commands between ticks
// and calls Command.Apply itself.
package remote
