package graph

// Status is the engine-reported execution state of a node.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusError     Status = "error"
)

// Port is a named input slot on a node. HistoryCount is the number of
// recorded past values for the port, surfaced as a badge next to it.
type Port struct {
	Name         string `json:"name"`
	HistoryCount int    `json:"history_count,omitempty"`
}

// Widget describes an input or output component attached to a node. The
// canvas never interprets Props or Value; they pass through to the
// widget renderer unmodified.
type Widget struct {
	Component string         `json:"component"`
	Label     string         `json:"label"`
	Props     map[string]any `json:"props,omitempty"`
	Value     any            `json:"value,omitempty"`
}

// MapItem is one element of a map node's scattered input, together with
// its per-item output once the engine has produced one.
type MapItem struct {
	Index   int    `json:"index"`
	Preview string `json:"preview"`
	Output  any    `json:"output,omitempty"`
}

// Node is a single computation step in the workflow graph. (X, Y) is the
// top-left anchor in logical canvas coordinates, not screen pixels.
type Node struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Type          string    `json:"type"`
	Inputs        []Port    `json:"inputs"`
	Outputs       []string  `json:"outputs"`
	X             float64   `json:"x"`
	Y             float64   `json:"y"`
	Status        Status    `json:"status"`
	IsOutputNode  bool      `json:"is_output_node"`
	IsInputNode   bool      `json:"is_input_node"`
	IsMapNode     bool      `json:"is_map_node,omitempty"`
	MapItems      []MapItem `json:"map_items,omitempty"`
	InputWidgets  []Widget  `json:"input_components,omitempty"`
	OutputWidgets []Widget  `json:"output_components,omitempty"`
}

// Edge is a directed connection from one node's output port to another
// node's input port. IsScattered and IsGathered are mutually exclusive;
// the engine marks at most one.
type Edge struct {
	ID          string `json:"id"`
	FromNode    string `json:"from_node"`
	FromPort    string `json:"from_port"`
	ToNode      string `json:"to_node"`
	ToPort      string `json:"to_port"`
	IsScattered bool   `json:"is_scattered,omitempty"`
	IsGathered  bool   `json:"is_gathered,omitempty"`
}

// CanvasData is the shared value exchanged with the workflow engine in
// both directions. Inbound it carries the graph and completion
// notifications; outbound it carries the run command and accumulated
// user inputs.
type CanvasData struct {
	Nodes           []Node                    `json:"nodes"`
	Edges           []Edge                    `json:"edges"`
	RunToNode       string                    `json:"run_to_node,omitempty"`
	RunID           string                    `json:"run_id,omitempty"`
	CompletedNode   string                    `json:"completed_node,omitempty"`
	ExecutingNodes  []string                  `json:"executing_nodes,omitempty"`
	Inputs          map[string]map[string]any `json:"inputs,omitempty"`
	SelectedResults map[string]int            `json:"selected_results,omitempty"`
	RerunMapItem    *MapItemRef               `json:"rerun_map_item,omitempty"`
	LoadingStatus   map[string]any            `json:"loading_status,omitempty"`
}

// MapItemRef identifies one item of a map node for a per-item rerun.
type MapItemRef struct {
	Node  string `json:"node"`
	Index int    `json:"index"`
}
