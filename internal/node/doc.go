// Package node holds the state shared by every vertex of the playback graph.
//
// A node is identified by a nodeid.ID handed out by the driver and registered
// in a graph.Graph arena. Connections are never stored on the node itself:
// Connect, Disconnect, Inputs and Outputs all go through the graph, so the
// graph remains the single owner of the edge list.
package node
