// Package channel exposes the canvas over a bidirectional socket.io
// namespace: CanvasData snapshots flow in from the workflow engine,
// run commands flow back out as change events, and front-end
// interaction events drive the viewport and tracker.
package channel
