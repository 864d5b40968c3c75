package enginesim

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"

	"github.com/vk/dagcanvas/internal/ctxlog"
	"github.com/vk/dagcanvas/internal/graph"
)

// Sim is a scripted stand-in for the workflow engine. It connects to a
// canvas server, pushes a demo graph, and answers run commands with
// streamed completion notifications, including a deliberate duplicate
// since the real engine's transport can retransmit.
type Sim struct {
	URL       string
	Namespace string
	// StepDelay is the simulated execution time per node.
	StepDelay time.Duration
}

// New returns a simulator targeting the given canvas server.
func New(rawURL, namespace string) *Sim {
	return &Sim{URL: rawURL, Namespace: namespace, StepDelay: 500 * time.Millisecond}
}

// Run connects, publishes the demo graph, and serves run commands until
// the context is cancelled.
func (s *Sim) Run(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx).With("url", s.URL, "namespace", s.Namespace)

	parsedURL, err := url.Parse(s.URL)
	if err != nil {
		return fmt.Errorf("failed to parse URL: %w", err)
	}

	opts := socket.DefaultOptions()
	opts.SetPath("/socket.io")
	opts.SetTransports(types.NewSet(transports.WebSocket))

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(s.Namespace, opts)
	defer io.Disconnect()

	io.On(types.EventName("connect"), func(...any) {
		logger.Info("Connected to canvas, pushing demo graph.", "sid", io.Id())
		io.Emit("canvas_data", DemoGraph())
	})

	io.On(types.EventName("connect_error"), func(errs ...any) {
		logger.Error("Connection failed", "error", errs[0])
	})

	io.On(types.EventName("change"), func(datas ...any) {
		var cmd graph.CanvasData
		if len(datas) == 0 || !decode(datas[0], &cmd) {
			return
		}
		if cmd.RunToNode == "" {
			return
		}
		logger.Info("Run command received.", "run_id", cmd.RunID, "target", cmd.RunToNode, "nodes", cmd.ExecutingNodes)
		go s.streamCompletions(ctx, io, cmd)
	})

	io.Connect()
	<-ctx.Done()
	return nil
}

// streamCompletions reports each executing node done after a simulated
// delay, and re-sends the first notification once to exercise the
// canvas's dedup path.
func (s *Sim) streamCompletions(ctx context.Context, io *socket.Socket, cmd graph.CanvasData) {
	for i, name := range cmd.ExecutingNodes {
		select {
		case <-ctx.Done():
			return
		case <-time.After(s.StepDelay):
		}

		snapshot := DemoGraph()
		markCompleted(&snapshot, cmd.ExecutingNodes[:i+1], name)
		snapshot.RunID = cmd.RunID
		snapshot.CompletedNode = name
		io.Emit("canvas_data", snapshot)

		if i == 0 {
			// Duplicate delivery of the same (run, node) pair.
			io.Emit("canvas_data", snapshot)
		}
	}
}

func markCompleted(data *graph.CanvasData, done []string, current string) {
	for i := range data.Nodes {
		for _, name := range done {
			if data.Nodes[i].Name != name {
				continue
			}
			data.Nodes[i].Status = graph.StatusCompleted
			if name == current {
				for j := range data.Nodes[i].OutputWidgets {
					data.Nodes[i].OutputWidgets[j].Value = fmt.Sprintf("output of %s", name)
				}
			}
		}
	}
}

// DemoGraph is a small podcast-style pipeline: a text input feeding a
// script generator, whose output scatters into a narrator and gathers
// back into a final episode node.
func DemoGraph() graph.CanvasData {
	return graph.CanvasData{
		Nodes: []graph.Node{
			{
				ID: "topic", Name: "Topic", Type: "INPUT",
				Outputs: []string{"text"},
				X:       50, Y: 120,
				Status: graph.StatusPending, IsInputNode: true,
				InputWidgets: []graph.Widget{{Component: "textbox", Label: "text", Props: map[string]any{"placeholder": "Episode topic..."}}},
			},
			{
				ID: "script", Name: "Write Script", Type: "MODEL",
				Inputs:  []graph.Port{{Name: "topic"}},
				Outputs: []string{"sections"},
				X:       450, Y: 80,
				Status:        graph.StatusPending,
				OutputWidgets: []graph.Widget{{Component: "json", Label: "sections"}},
			},
			{
				ID: "narrate", Name: "Narrate", Type: "MAP",
				Inputs:  []graph.Port{{Name: "section"}},
				Outputs: []string{"audio"},
				X:       850, Y: 80,
				Status:    graph.StatusPending,
				IsMapNode: true,
				MapItems: []graph.MapItem{
					{Index: 1, Preview: "Intro"},
					{Index: 2, Preview: "Interview"},
					{Index: 3, Preview: "Outro"},
				},
				OutputWidgets: []graph.Widget{{Component: "audio", Label: "audio"}},
			},
			{
				ID: "episode", Name: "Episode", Type: "FN",
				Inputs: []graph.Port{{Name: "clips"}},
				X:      1250, Y: 120,
				Status: graph.StatusPending, IsOutputNode: true,
				OutputWidgets: []graph.Widget{{Component: "audio", Label: "episode"}},
			},
		},
		Edges: []graph.Edge{
			{ID: "e1", FromNode: "topic", FromPort: "text", ToNode: "script", ToPort: "topic"},
			{ID: "e2", FromNode: "script", FromPort: "sections", ToNode: "narrate", ToPort: "section", IsScattered: true},
			{ID: "e3", FromNode: "narrate", FromPort: "audio", ToNode: "episode", ToPort: "clips", IsGathered: true},
		},
	}
}

func decode(payload any, target any) bool {
	raw, err := json.Marshal(payload)
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, target) == nil
}
