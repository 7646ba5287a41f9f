/*
Package builder is responsible for turning a composition into a live graph.
It acts as the bridge between the static configuration model (defined in the
'config' package) and the playback driver (the 'playback' package).

The primary artifact produced by this package is a *Composition: every node
created on the driver, addressable by its composition reference.

The construction is a multi-phase process:

 1. Node Creation: The builder iterates through the model's sources and
    processors, creating a node on the driver for each one. Sources are
    sequenced from their start and stop attributes; processors get their
    definition, property overrides and scheduled transitions.

 2. Connection Linking: Every `connect` block is resolved to a pair of nodes
    and registered through the node API, so capacity and port rules are the
    graph's own.

 3. Validation and Cues: The builder derives a topological order from the
    finished graph to reject cycles, then registers every cue as a timeline
    callback and applies the timeline's rate and volume.

Errors name the offending block. The builder never rolls back: callers
discard the driver (or Reset it) when Build fails.
*/
package builder
