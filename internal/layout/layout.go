package layout

import "github.com/vk/dagcanvas/internal/graph"

// Geometry constants shared between layout computation and paint. The
// edge router locates port anchors with the same numbers, so they must
// never be duplicated elsewhere.
const (
	NodeWidth      = 280.0
	HeaderHeight   = 56.0
	BodyTopPadding = 16.0
	PortRowHeight  = 30.0

	// Extra row heights for embedded content below the port rows.
	InputWidgetHeight  = 72.0
	OutputWidgetHeight = 88.0
	StatusStripHeight  = 38.0
	MapHeaderHeight    = 40.0
	MapItemHeight      = 52.0
)

// Point is a position in logical canvas coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned rectangle in logical canvas coordinates.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// NodeHeight derives a node's on-screen height from its static content:
// header, port rows (at least one row even for portless nodes), then
// any widget rows, map item rows, and the status strip.
func NodeHeight(n graph.Node) float64 {
	rows := max(len(n.Inputs), len(n.Outputs))
	if rows < 1 {
		rows = 1
	}

	h := HeaderHeight + BodyTopPadding + float64(rows)*PortRowHeight
	h += float64(len(n.InputWidgets)) * InputWidgetHeight
	h += float64(len(n.OutputWidgets)) * OutputWidgetHeight
	if n.IsMapNode {
		h += MapHeaderHeight + float64(len(n.MapItems))*MapItemHeight
	}
	h += StatusStripHeight
	return h
}

// PortAnchorY is the vertical center of the port row at the given
// index, relative to the node's top edge. Input and output ports follow
// the same law; only the horizontal edge differs.
func PortAnchorY(portIndex int) float64 {
	return HeaderHeight + BodyTopPadding + float64(portIndex)*PortRowHeight + PortRowHeight/2
}

// NodeBounds is the node's rectangle in canvas coordinates.
func NodeBounds(n graph.Node) Rect {
	return Rect{X: n.X, Y: n.Y, W: NodeWidth, H: NodeHeight(n)}
}

// ContentBounds is the union bounding box of all node rectangles. The
// second return value is false when there are no nodes.
func ContentBounds(nodes []graph.Node) (Rect, bool) {
	if len(nodes) == 0 {
		return Rect{}, false
	}

	first := NodeBounds(nodes[0])
	minX, minY := first.X, first.Y
	maxX, maxY := first.X+first.W, first.Y+first.H

	for _, n := range nodes[1:] {
		b := NodeBounds(n)
		minX = min(minX, b.X)
		minY = min(minY, b.Y)
		maxX = max(maxX, b.X+b.W)
		maxY = max(maxY, b.Y+b.H)
	}

	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}, true
}
