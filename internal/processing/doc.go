// Package processing implements the nodes that combine or transform the
// textures produced by sources: effects, transitions, compositors and the
// destination that draws to the output surface.
//
// Every processing node wraps one render.Program compiled from a
// render.Definition. The number of texture units a definition binds is
// checked against the backend when the node is created.
package processing
