// Package graph defines the canvas-side model of the workflow graph
// (nodes, ports, edges, widgets) and a staleness-tolerant store for the
// snapshots the engine pushes. The model is pure data; all behavior
// lives in the store.
package graph
