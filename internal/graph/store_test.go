package graph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/dagcanvas/internal/graph"
	"github.com/vk/dagcanvas/internal/testutil"
)

func TestStoreApply_StalenessGuard(t *testing.T) {
	s := graph.NewStore()
	first := testutil.LinearGraph()
	s.Apply(first)
	require.Len(t, s.Nodes(), 3)
	require.Len(t, s.Edges(), 2)

	t.Run("empty snapshot retains previous content", func(t *testing.T) {
		s.Apply(graph.CanvasData{})
		assert.Len(t, s.Nodes(), 3)
		assert.Len(t, s.Edges(), 2)
	})

	t.Run("non-empty snapshot replaces content", func(t *testing.T) {
		replacement := graph.CanvasData{
			Nodes: []graph.Node{{ID: "x", Name: "X", Status: graph.StatusPending}},
			Edges: []graph.Edge{{ID: "e", FromNode: "x", ToNode: "x"}},
		}
		s.Apply(replacement)
		require.Len(t, s.Nodes(), 1)
		assert.Equal(t, "X", s.Nodes()[0].Name)
	})

	t.Run("partial snapshot replaces only the non-empty list", func(t *testing.T) {
		s.Apply(graph.CanvasData{Nodes: testutil.LinearGraph().Nodes})
		assert.Len(t, s.Nodes(), 3)
		assert.Len(t, s.Edges(), 1) // edges kept from previous apply
	})
}

func TestStoreResolve(t *testing.T) {
	s := graph.NewStore()
	s.Apply(testutil.LinearGraph())

	t.Run("by id", func(t *testing.T) {
		n, ok := s.Resolve("b")
		require.True(t, ok)
		assert.Equal(t, "B", n.Name)
	})

	t.Run("falls back to name", func(t *testing.T) {
		n, ok := s.Resolve("B")
		require.True(t, ok)
		assert.Equal(t, "b", n.ID)
	})

	t.Run("unknown key", func(t *testing.T) {
		_, ok := s.Resolve("nope")
		assert.False(t, ok)
	})
}

func TestStoreAncestors(t *testing.T) {
	t.Run("input nodes are excluded", func(t *testing.T) {
		s := graph.NewStore()
		s.Apply(testutil.LinearGraph())

		assert.Equal(t, []string{"B"}, s.Ancestors("C"))
		assert.Empty(t, s.Ancestors("B"), "B's only ancestor is the input node A")
	})

	t.Run("diamond collects both branches once", func(t *testing.T) {
		s := graph.NewStore()
		s.Apply(testutil.DiamondGraph())

		got := s.Ancestors("Out")
		assert.ElementsMatch(t, []string{"L", "R"}, got)
	})

	t.Run("unknown target", func(t *testing.T) {
		s := graph.NewStore()
		s.Apply(testutil.LinearGraph())
		assert.Nil(t, s.Ancestors("missing"))
	})

	t.Run("edges keyed by name instead of id still resolve", func(t *testing.T) {
		data := testutil.LinearGraph()
		// The engine sometimes emits display names as edge endpoints.
		data.Edges = []graph.Edge{
			{ID: "e1", FromNode: "A", FromPort: "out", ToNode: "B", ToPort: "in"},
			{ID: "e2", FromNode: "B", FromPort: "out", ToNode: "C", ToPort: "in"},
		}
		s := graph.NewStore()
		s.Apply(data)
		assert.Equal(t, []string{"B"}, s.Ancestors("C"))
	})
}
