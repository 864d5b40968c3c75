// Package testutil holds fixtures and helpers shared by the canvas
// package tests.
package testutil

import (
	"bytes"
	"log/slog"
	"sync"

	"github.com/vk/dagcanvas/internal/graph"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// Logger returns a debug-level logger writing into the returned buffer.
func Logger() (*slog.Logger, *SafeBuffer) {
	buf := &SafeBuffer{}
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})), buf
}

// LinearGraph is the canonical three-node pipeline: A (input) feeding
// B (fn) feeding C (output).
func LinearGraph() graph.CanvasData {
	return graph.CanvasData{
		Nodes: []graph.Node{
			{
				ID: "a", Name: "A", Type: "INPUT",
				Outputs: []string{"out"},
				X:       0, Y: 0,
				Status: graph.StatusPending, IsInputNode: true,
			},
			{
				ID: "b", Name: "B", Type: "FN",
				Inputs:  []graph.Port{{Name: "in"}},
				Outputs: []string{"out"},
				X:       400, Y: 0,
				Status: graph.StatusPending,
			},
			{
				ID: "c", Name: "C", Type: "FN",
				Inputs: []graph.Port{{Name: "in"}},
				X:      800, Y: 0,
				Status: graph.StatusPending, IsOutputNode: true,
				OutputWidgets: []graph.Widget{{Component: "textbox", Label: "result"}},
			},
		},
		Edges: []graph.Edge{
			{ID: "e1", FromNode: "a", FromPort: "out", ToNode: "b", ToPort: "in"},
			{ID: "e2", FromNode: "b", FromPort: "out", ToNode: "c", ToPort: "in"},
		},
	}
}

// DiamondGraph fans one input out through two middle nodes and gathers
// them into one sink: In -> {L, R} -> Out.
func DiamondGraph() graph.CanvasData {
	return graph.CanvasData{
		Nodes: []graph.Node{
			{ID: "in", Name: "In", Type: "INPUT", Outputs: []string{"v"}, IsInputNode: true, Status: graph.StatusPending},
			{ID: "l", Name: "L", Type: "FN", Inputs: []graph.Port{{Name: "v"}}, Outputs: []string{"v"}, X: 400, Status: graph.StatusPending},
			{ID: "r", Name: "R", Type: "FN", Inputs: []graph.Port{{Name: "v"}}, Outputs: []string{"v"}, X: 400, Y: 400, Status: graph.StatusPending},
			{ID: "out", Name: "Out", Type: "FN", Inputs: []graph.Port{{Name: "a"}, {Name: "b"}}, X: 800, Status: graph.StatusPending, IsOutputNode: true},
		},
		Edges: []graph.Edge{
			{ID: "e1", FromNode: "in", FromPort: "v", ToNode: "l", ToPort: "v"},
			{ID: "e2", FromNode: "in", FromPort: "v", ToNode: "r", ToPort: "v"},
			{ID: "e3", FromNode: "l", FromPort: "v", ToNode: "out", ToPort: "a"},
			{ID: "e4", FromNode: "r", FromPort: "v", ToNode: "out", ToPort: "b"},
		},
	}
}
