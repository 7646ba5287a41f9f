// Package app wires a composition to a playback driver and runs it. It
// defines the App struct, its configuration and the tick loop, decoupled
// from any specific entrypoint like a CLI.
package app
