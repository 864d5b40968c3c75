package channel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/dagcanvas/internal/config"
	"github.com/vk/dagcanvas/internal/graph"
	"github.com/vk/dagcanvas/internal/renderer"
	"github.com/vk/dagcanvas/internal/testutil"
)

func newTestServer() *Server {
	logger, _ := testutil.Logger()
	return New(logger, renderer.New(logger, config.NewDefault()), "/canvas")
}

func TestDecode(t *testing.T) {
	s := newTestServer()

	t.Run("map payload into struct", func(t *testing.T) {
		var req struct {
			Node string `json:"node"`
			Port string `json:"port"`
		}
		payload := map[string]any{"node": "B", "port": "in"}
		require.True(t, s.decode([]any{payload}, &req))
		assert.Equal(t, "B", req.Node)
		assert.Equal(t, "in", req.Port)
	})

	t.Run("full snapshot round-trips", func(t *testing.T) {
		// socket.io delivers JSON payloads as map[string]any; the decode
		// path must rebuild the typed snapshot from that shape.
		wire := map[string]any{
			"nodes": []any{
				map[string]any{"id": "a", "name": "A", "type": "INPUT", "is_input_node": true},
			},
			"edges": []any{
				map[string]any{"id": "e", "from_node": "a", "to_node": "b", "is_scattered": true},
			},
			"run_id":         "r1",
			"completed_node": "A",
		}

		var snapshot graph.CanvasData
		require.True(t, s.decode([]any{wire}, &snapshot))
		require.Len(t, snapshot.Nodes, 1)
		assert.Equal(t, "A", snapshot.Nodes[0].Name)
		assert.True(t, snapshot.Nodes[0].IsInputNode)
		require.Len(t, snapshot.Edges, 1)
		assert.True(t, snapshot.Edges[0].IsScattered)
		assert.Equal(t, "r1", snapshot.RunID)
		assert.Equal(t, "A", snapshot.CompletedNode)
	})

	t.Run("empty payload rejected", func(t *testing.T) {
		var req struct{}
		assert.False(t, s.decode(nil, &req))
	})

	t.Run("mismatched shape rejected", func(t *testing.T) {
		var req struct {
			Node string `json:"node"`
		}
		assert.False(t, s.decode([]any{"just a string"}, &req))
	})
}

func TestDecodeNode(t *testing.T) {
	s := newTestServer()

	node, ok := s.decodeNode([]any{map[string]any{"node": "C"}})
	require.True(t, ok)
	assert.Equal(t, "C", node)

	_, ok = s.decodeNode(nil)
	assert.False(t, ok)
}
