package router_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/dagcanvas/internal/graph"
	"github.com/vk/dagcanvas/internal/layout"
	"github.com/vk/dagcanvas/internal/router"
)

func storeWith(nodes []graph.Node, edges []graph.Edge) *graph.Store {
	s := graph.NewStore()
	s.Apply(graph.CanvasData{Nodes: nodes, Edges: edges})
	return s
}

func twoNodes() []graph.Node {
	return []graph.Node{
		{ID: "src", Name: "Src", Outputs: []string{"out"}, X: 0, Y: 0},
		{ID: "dst", Name: "Dst", Inputs: []graph.Port{{Name: "in"}}, X: 600, Y: 200},
	}
}

func TestRoutes_Direct(t *testing.T) {
	s := storeWith(twoNodes(), []graph.Edge{
		{ID: "e", FromNode: "src", FromPort: "out", ToNode: "dst", ToPort: "in"},
	})

	routes := router.Routes(s)
	require.Len(t, routes, 1)
	r := routes[0]
	assert.Equal(t, router.KindDirect, r.Kind)
	assert.Empty(t, r.Fan)

	p1 := layout.Point{X: layout.NodeWidth, Y: layout.PortAnchorY(0)}
	p2 := layout.Point{X: 600, Y: 200 + layout.PortAnchorY(0)}
	assert.Equal(t, p1, r.Curve.Start)
	assert.Equal(t, p2, r.Curve.End)

	// Horizontal tangents: control points share y with their endpoints,
	// offset by max(0.4*dx, 50).
	offset := 0.4 * (p2.X - p1.X)
	assert.Equal(t, layout.Point{X: p1.X + offset, Y: p1.Y}, r.Curve.C1)
	assert.Equal(t, layout.Point{X: p2.X - offset, Y: p2.Y}, r.Curve.C2)
}

func TestRoutes_MinimumControlOffset(t *testing.T) {
	nodes := twoNodes()
	nodes[1].X = layout.NodeWidth + 20 // nearly touching
	s := storeWith(nodes, []graph.Edge{
		{ID: "e", FromNode: "src", FromPort: "out", ToNode: "dst", ToPort: "in"},
	})

	routes := router.Routes(s)
	require.Len(t, routes, 1)
	r := routes[0]
	assert.Equal(t, r.Curve.Start.X+50, r.Curve.C1.X)
	assert.Equal(t, r.Curve.End.X-50, r.Curve.C2.X)
}

func TestRoutes_Scattered(t *testing.T) {
	s := storeWith(twoNodes(), []graph.Edge{
		{ID: "e", FromNode: "src", FromPort: "out", ToNode: "dst", ToPort: "in", IsScattered: true},
	})

	routes := router.Routes(s)
	require.Len(t, routes, 1)
	r := routes[0]
	assert.Equal(t, router.KindScattered, r.Kind)

	p2 := layout.Point{X: 600, Y: 200 + layout.PortAnchorY(0)}

	// Main curve stops 30 units short of the target.
	assert.Equal(t, layout.Point{X: p2.X - 30, Y: p2.Y}, r.Curve.End)

	// Three fan segments from the fork to y-spread, y, y+spread.
	require.Len(t, r.Fan, 3)
	for _, seg := range r.Fan {
		assert.Equal(t, r.Curve.End, seg.From)
		assert.Equal(t, p2.X, seg.To.X)
	}
	assert.Equal(t, p2.Y-router.FanSpread, r.Fan[0].To.Y)
	assert.Equal(t, p2.Y, r.Fan[1].To.Y)
	assert.Equal(t, p2.Y+router.FanSpread, r.Fan[2].To.Y)
}

func TestRoutes_Gathered(t *testing.T) {
	s := storeWith(twoNodes(), []graph.Edge{
		{ID: "e", FromNode: "src", FromPort: "out", ToNode: "dst", ToPort: "in", IsGathered: true},
	})

	routes := router.Routes(s)
	require.Len(t, routes, 1)
	r := routes[0]
	assert.Equal(t, router.KindGathered, r.Kind)

	p1 := layout.Point{X: layout.NodeWidth, Y: layout.PortAnchorY(0)}
	merge := layout.Point{X: p1.X + 30, Y: p1.Y}
	assert.Equal(t, merge, r.Curve.Start)

	require.Len(t, r.Fan, 3)
	for _, seg := range r.Fan {
		assert.Equal(t, merge, seg.To)
		assert.Equal(t, p1.X, seg.From.X)
	}
	assert.Equal(t, p1.Y-router.FanSpread, r.Fan[0].From.Y)
	assert.Equal(t, p1.Y+router.FanSpread, r.Fan[2].From.Y)
}

func TestRoutes_SkipsUnresolvable(t *testing.T) {
	edges := []graph.Edge{
		{ID: "missing-node", FromNode: "ghost", FromPort: "out", ToNode: "dst", ToPort: "in"},
		{ID: "missing-port", FromNode: "src", FromPort: "nope", ToNode: "dst", ToPort: "in"},
		{ID: "ok", FromNode: "src", FromPort: "out", ToNode: "dst", ToPort: "in"},
	}
	s := storeWith(twoNodes(), edges)

	routes := router.Routes(s)
	require.Len(t, routes, 1)
	assert.Equal(t, "ok", routes[0].EdgeID)
}

func TestRouteSVG(t *testing.T) {
	s := storeWith(twoNodes(), []graph.Edge{
		{ID: "e", FromNode: "src", FromPort: "out", ToNode: "dst", ToPort: "in", IsScattered: true},
	})
	routes := router.Routes(s)
	require.Len(t, routes, 1)

	d := routes[0].SVG()
	assert.True(t, strings.HasPrefix(d, "M "), d)
	assert.Contains(t, d, " C ")
	assert.Equal(t, 3, strings.Count(d, " L "), "one line per fan segment")
	assert.Equal(t, d, routes[0].Path, "precomputed path matches the geometry")
}
