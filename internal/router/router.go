package router

import (
	"github.com/vk/dagcanvas/internal/graph"
	"github.com/vk/dagcanvas/internal/layout"
)

const (
	// minControlOffset keeps the bezier horizontal at both endpoints
	// even when the nodes are close together.
	minControlOffset = 50.0
	controlRatio     = 0.4

	// trunkLength is how far before (scattered) or after (gathered) the
	// shared endpoint the main curve stops and the fan takes over.
	trunkLength = 30.0

	// FanSpread is the vertical offset of the outer fan segments from
	// the un-forked target y.
	FanSpread = 8.0
)

// Kind distinguishes the three edge treatments.
type Kind string

const (
	KindDirect    Kind = "direct"
	KindScattered Kind = "scattered"
	KindGathered  Kind = "gathered"
)

// Curve is a single cubic bezier segment.
type Curve struct {
	Start layout.Point `json:"start"`
	C1    layout.Point `json:"c1"`
	C2    layout.Point `json:"c2"`
	End   layout.Point `json:"end"`
}

// Segment is a straight fan segment.
type Segment struct {
	From layout.Point `json:"from"`
	To   layout.Point `json:"to"`
}

// Route is the draw-able path set for one edge: a main curve plus, for
// scattered and gathered edges, three short fan segments near the
// shared endpoint. Path is the same geometry rendered as an SVG path
// string for front ends that paint with SVG.
type Route struct {
	EdgeID string    `json:"edge_id"`
	Kind   Kind      `json:"kind"`
	Curve  Curve     `json:"curve"`
	Fan    []Segment `json:"fan,omitempty"`
	Path   string    `json:"path"`
}

// Routes computes a route for every resolvable edge in the store. Edges
// referencing a missing node or port are skipped, never reported: the
// engine may be mid-update and the next snapshot will heal them.
func Routes(s *graph.Store) []Route {
	edges := s.Edges()
	routes := make([]Route, 0, len(edges))

	for _, e := range edges {
		r, ok := routeEdge(s, e)
		if !ok {
			continue
		}
		r.Path = r.SVG()
		routes = append(routes, r)
	}

	return routes
}

func routeEdge(s *graph.Store, e graph.Edge) (Route, bool) {
	from, ok := s.Resolve(e.FromNode)
	if !ok {
		return Route{}, false
	}
	to, ok := s.Resolve(e.ToNode)
	if !ok {
		return Route{}, false
	}

	outIndex := outputIndex(from, e.FromPort)
	inIndex := inputIndex(to, e.ToPort)
	if outIndex < 0 || inIndex < 0 {
		return Route{}, false
	}

	p1 := layout.Point{X: from.X + layout.NodeWidth, Y: from.Y + layout.PortAnchorY(outIndex)}
	p2 := layout.Point{X: to.X, Y: to.Y + layout.PortAnchorY(inIndex)}

	switch {
	case e.IsScattered:
		return scatteredRoute(e.ID, p1, p2), true
	case e.IsGathered:
		return gatheredRoute(e.ID, p1, p2), true
	default:
		return Route{EdgeID: e.ID, Kind: KindDirect, Curve: curveBetween(p1, p2)}, true
	}
}

// curveBetween builds the smooth S-curve between two port anchors with
// horizontal tangents at both ends.
func curveBetween(p1, p2 layout.Point) Curve {
	offset := controlOffset(p1, p2)
	return Curve{
		Start: p1,
		C1:    layout.Point{X: p1.X + offset, Y: p1.Y},
		C2:    layout.Point{X: p2.X - offset, Y: p2.Y},
		End:   p2,
	}
}

// scatteredRoute truncates the main curve short of the target and fans
// three straight segments onto it, signalling that the value will be
// distributed across downstream invocations.
func scatteredRoute(id string, p1, p2 layout.Point) Route {
	fork := layout.Point{X: p2.X - trunkLength, Y: p2.Y}
	fan := make([]Segment, 0, 3)
	for _, dy := range []float64{-FanSpread, 0, FanSpread} {
		fan = append(fan, Segment{From: fork, To: layout.Point{X: p2.X, Y: p2.Y + dy}})
	}
	return Route{EdgeID: id, Kind: KindScattered, Curve: curveBetween(p1, fork), Fan: fan}
}

// gatheredRoute is the mirror image: three segments converge from the
// source onto a point just after it, then one curve continues on.
func gatheredRoute(id string, p1, p2 layout.Point) Route {
	merge := layout.Point{X: p1.X + trunkLength, Y: p1.Y}
	fan := make([]Segment, 0, 3)
	for _, dy := range []float64{-FanSpread, 0, FanSpread} {
		fan = append(fan, Segment{From: layout.Point{X: p1.X, Y: p1.Y + dy}, To: merge})
	}
	return Route{EdgeID: id, Kind: KindGathered, Curve: curveBetween(merge, p2), Fan: fan}
}

func controlOffset(p1, p2 layout.Point) float64 {
	dx := p2.X - p1.X
	if dx < 0 {
		dx = -dx
	}
	return max(controlRatio*dx, minControlOffset)
}

func outputIndex(n graph.Node, port string) int {
	for i, name := range n.Outputs {
		if name == port {
			return i
		}
	}
	return -1
}

func inputIndex(n graph.Node, port string) int {
	for i, p := range n.Inputs {
		if p.Name == port {
			return i
		}
	}
	return -1
}
