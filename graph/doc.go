// Package graph is the node graph model: nodes with typed ports and
// parameters, the connections between them, groups with nested scenes and
// the plain document form everything serializes to.
//
// A Scene owns the port to connection index. Ports and connections never
// hold references back to the scene; they ask their node for it.
package graph
