// Package graph implements a directed audio processing graph that can be
// edited while a realtime thread renders it.
//
// Edits (AddNode, RemoveNode, AddConnection, RemoveConnection) are staged by
// a single writer. Publish compiles the staged graph into an immutable plan
// with Kahn's algorithm and swaps it in atomically; Render only ever reads
// the latest published plan and per-node atomic flags, so it never observes
// a partially applied edit and never takes a lock.
//
// Removed nodes are retired, not freed. Each plan carries an epoch and
// Render acknowledges the epoch of every plan it finishes; Reclaim releases
// retired nodes once no plan the render thread may still hold references
// them. Render must be driven from one goroutine at a time.
package graph
