package renderer

import (
	"github.com/vk/dagcanvas/internal/graph"
	"github.com/vk/dagcanvas/internal/router"
)

// Transform is the viewport state applied to the whole scene:
// screen = canvas*Scale + (X, Y).
type Transform struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Scale float64 `json:"scale"`
}

// PortView is one port row with its resolved anchor point.
type PortView struct {
	Name         string  `json:"name"`
	AnchorX      float64 `json:"anchor_x"`
	AnchorY      float64 `json:"anchor_y"`
	HistoryCount int     `json:"history_count,omitempty"`
}

// WidgetView pairs a pass-through widget descriptor with the value the
// current result selection assigns to it, and with whatever the host's
// widget renderer produced for it.
type WidgetView struct {
	Widget   graph.Widget `json:"widget"`
	Value    any          `json:"value,omitempty"`
	Rendered any          `json:"rendered,omitempty"`
}

// NodeView is everything the paint layer needs for one node: resolved
// geometry, execution badges, result selector state, and widgets.
type NodeView struct {
	Node        graph.Node `json:"node"`
	X           float64    `json:"x"`
	Y           float64    `json:"y"`
	Width       float64    `json:"width"`
	Height      float64    `json:"height"`
	Color       string     `json:"color"`
	InputPorts  []PortView `json:"input_ports"`
	OutputPorts []PortView `json:"output_ports"`

	PendingRuns int `json:"pending_runs"`

	// ResultIndex is -1 until the node has recorded history; the paint
	// layer then falls back to the engine-supplied live values.
	ResultIndex int    `json:"result_index"`
	ResultCount int    `json:"result_count"`
	ResultRunID string `json:"result_run_id,omitempty"`
	ResultAt    string `json:"result_at,omitempty"`

	InputWidgets  []WidgetView `json:"input_widgets,omitempty"`
	OutputWidgets []WidgetView `json:"output_widgets,omitempty"`

	MapExpanded bool `json:"map_expanded,omitempty"`
}

// Scene is the renderer's complete output for one paint: the transform,
// every node view, and every routed edge.
type Scene struct {
	Transform Transform      `json:"transform"`
	Nodes     []NodeView     `json:"nodes"`
	Edges     []router.Route `json:"edges"`
}
