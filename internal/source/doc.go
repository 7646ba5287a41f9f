// Package source implements the temporal state machine shared by every media
// producing node, plus the video, image and canvas kinds built on it.
//
// A source is sequenced onto the shared timeline with Start/StartAt and
// Stop/StopAt, then driven once per tick by Advance:
//
//	Waiting -> Sequenced -> Playing <-> Paused -> Ended
//	                    any active state -> Error (terminal)
//
// Load and unload of the underlying media.Handle are driven from Advance and
// Seek; kinds decide where the handle comes from (a mediapool.Pool for video,
// a media.Opener for images, the caller for canvases).
package source
