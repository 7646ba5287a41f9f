// internal/nodeid/doc.go

/*
Package nodeid provides the two identifiers used for graph nodes.

ID is the stable arena index the connection graph addresses nodes by. IDs are
handed out by a Sequence and are never reused within one graph, so an edge that
still names a destroyed node can always be told apart from a live one.

Ref is the human-written reference used by composition files, in the canonical
form `kind.name` (e.g. `video.intro`, `effect.mono`). The single segment
`destination` names the output surface.
*/
package nodeid
