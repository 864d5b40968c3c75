package renderer

import (
	"log/slog"
	"sync"

	"github.com/vk/dagcanvas/internal/config"
	"github.com/vk/dagcanvas/internal/graph"
	"github.com/vk/dagcanvas/internal/layout"
	"github.com/vk/dagcanvas/internal/router"
	"github.com/vk/dagcanvas/internal/runtracker"
	"github.com/vk/dagcanvas/internal/viewport"
)

// Renderer is the composition root of the canvas: it feeds snapshots
// into the graph store and run tracker, applies the viewport transform,
// and assembles the scene the paint layer draws.
//
// One mutex serializes every inbound event, which gives the same
// ordering guarantees a single-threaded UI event loop would.
type Renderer struct {
	mutex   sync.Mutex
	logger  *slog.Logger
	store   *graph.Store
	view    *viewport.Viewport
	tracker *runtracker.Tracker
	theme   config.Theme

	inputs   map[string]map[string]any
	expanded map[string]bool

	widgets WidgetRenderer
	strip   StatusStrip

	viewW, viewH float64
	fitted       bool

	emit func(graph.CanvasData)
}

// New builds a renderer from the loaded config. Default input values
// from the config seed the accumulated inputs that ride outbound run
// commands.
func New(logger *slog.Logger, cfg *config.Config) *Renderer {
	inputs := make(map[string]map[string]any, len(cfg.Defaults))
	for node, ports := range cfg.Defaults {
		inputs[node] = make(map[string]any, len(ports))
		for port, value := range ports {
			inputs[node][port] = value
		}
	}

	return &Renderer{
		logger:   logger,
		store:    graph.NewStore(),
		view:     viewport.New(),
		tracker:  runtracker.New(cfg.GraceDelay),
		theme:    cfg.Theme,
		inputs:   inputs,
		expanded: make(map[string]bool),
	}
}

// OnChange registers the outbound hook that carries run commands and
// map-item rerun requests back to the engine.
func (r *Renderer) OnChange(fn func(graph.CanvasData)) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.emit = fn
}

// SetCollaborators attaches the optional external widget renderer and
// status strip. Either may be nil.
func (r *Renderer) SetCollaborators(widgets WidgetRenderer, strip StatusStrip) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.widgets = widgets
	r.strip = strip
}

// Tracker exposes the run tracker. Primarily for tests.
func (r *Renderer) Tracker() *runtracker.Tracker {
	return r.tracker
}

// Store exposes the graph store. Primarily for tests.
func (r *Renderer) Store() *graph.Store {
	return r.store
}

// Viewport exposes the viewport controller. Primarily for tests.
func (r *Renderer) Viewport() *viewport.Viewport {
	return r.view
}

// ApplySnapshot ingests one engine update: the graph itself (with the
// staleness guard), a streamed completion notification if one rides
// along, and the loading status for the strip collaborator.
func (r *Renderer) ApplySnapshot(data graph.CanvasData) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.store.Apply(data)

	if data.CompletedNode != "" && data.RunID != "" {
		outputs := r.completedOutputs(data, data.CompletedNode)
		r.tracker.Complete(data.RunID, data.CompletedNode, outputs)
		r.logger.Debug("Completion ingested.",
			"run_id", data.RunID, "node", data.CompletedNode,
			"pending", r.tracker.PendingCount(data.CompletedNode))
	}

	if r.strip != nil && data.LoadingStatus != nil {
		r.strip.SetStatus(data.LoadingStatus)
	}

	r.maybeFitLocked()
}

// completedOutputs collects the completed node's output widget values,
// keyed by widget label. The snapshot riding with the notification is
// the freshest source; the store is the fallback when the notification
// arrived with an empty node list.
func (r *Renderer) completedOutputs(data graph.CanvasData, name string) map[string]any {
	for _, n := range data.Nodes {
		if n.Name == name || n.ID == name {
			return widgetValues(n)
		}
	}
	if n, ok := r.store.NodeByName(name); ok {
		return widgetValues(n)
	}
	return nil
}

func widgetValues(n graph.Node) map[string]any {
	if len(n.OutputWidgets) == 0 {
		return nil
	}
	out := make(map[string]any, len(n.OutputWidgets))
	for _, w := range n.OutputWidgets {
		out[w.Label] = w.Value
	}
	return out
}

// SetInput records a user-entered value for one node port. The value
// accumulates locally and rides the next outbound run command.
func (r *Renderer) SetInput(node, port string, value any) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.inputs[node] == nil {
		r.inputs[node] = make(map[string]any)
	}
	r.inputs[node][port] = value
}

// RunToNode triggers execution up to the named node and emits the run
// command to the engine. ok is false when the node is unknown, which
// can happen transiently while a snapshot is streaming in.
func (r *Renderer) RunToNode(name string) (runtracker.Command, bool) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	cmd, ok := r.tracker.TriggerRun(r.store, name, copyInputs(r.inputs))
	if !ok {
		r.logger.Warn("Run target not found, ignoring.", "node", name)
		return runtracker.Command{}, false
	}

	r.logger.Info("Run triggered.", "run_id", cmd.RunID, "target", name, "executing", cmd.ExecutingNodes)
	r.emitLocked(graph.CanvasData{
		RunToNode:       cmd.TargetNode,
		RunID:           cmd.RunID,
		ExecutingNodes:  cmd.ExecutingNodes,
		Inputs:          cmd.Inputs,
		SelectedResults: cmd.SelectedResults,
	})
	return cmd, true
}

// RerunMapItem forwards a per-item rerun request for a map node.
func (r *Renderer) RerunMapItem(node string, index int) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.emitLocked(graph.CanvasData{
		RerunMapItem: &graph.MapItemRef{Node: node, Index: index},
		Inputs:       copyInputs(r.inputs),
	})
}

// PrevResult steps the node's result selection back one version.
func (r *Renderer) PrevResult(node string) { r.tracker.PrevResult(node) }

// NextResult steps the node's result selection forward one version.
func (r *Renderer) NextResult(node string) { r.tracker.NextResult(node) }

// ToggleMapItems expands or collapses a map node's item list.
func (r *Renderer) ToggleMapItems(node string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.expanded[node] = !r.expanded[node]
}

// ClearStatus relays the status strip's clear request.
func (r *Renderer) ClearStatus() {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.strip != nil {
		r.strip.Clear()
	}
}

// --- pointer and wheel input ---

// PointerDown arms a pan gesture when the press landed on the canvas
// background rather than a node.
func (r *Renderer) PointerDown(onBackground bool) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.view.StartDrag(onBackground)
}

// PointerMove pans by the pointer delta while a gesture is active.
func (r *Renderer) PointerMove(dx, dy float64) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.view.Drag(dx, dy)
}

// PointerUp ends the active gesture.
func (r *Renderer) PointerUp() {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.view.EndDrag()
}

// Wheel applies one wheel tick at the given screen position; zoomIn
// selects the direction.
func (r *Renderer) Wheel(pointer layout.Point, zoomIn bool) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	factor := viewport.WheelZoomOut
	if zoomIn {
		factor = viewport.WheelZoomIn
	}
	r.view.ZoomAt(pointer, factor)
}

// ZoomButton applies one discrete +/- button step centered on the
// viewport.
func (r *Renderer) ZoomButton(zoomIn bool) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	factor := viewport.ButtonZoomOut
	if zoomIn {
		factor = viewport.ButtonZoomIn
	}
	r.view.ZoomAt(layout.Point{X: r.viewW / 2, Y: r.viewH / 2}, factor)
}

// SetViewportSize records the measured on-screen canvas size. The first
// measurement triggers the deferred initial fit; geometry is simply not
// available before the host has painted once.
func (r *Renderer) SetViewportSize(w, h float64) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.viewW, r.viewH = w, h
	r.maybeFitLocked()
}

// Fit re-centers and rescales the viewport around all nodes.
func (r *Renderer) Fit() {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.fitLocked()
}

func (r *Renderer) maybeFitLocked() {
	if r.fitted {
		return
	}
	if r.fitLocked() {
		r.fitted = true
	}
}

func (r *Renderer) fitLocked() bool {
	bounds, ok := layout.ContentBounds(r.store.Nodes())
	if !ok || r.viewW <= 0 || r.viewH <= 0 {
		return false
	}
	r.view.FitToContent(bounds, r.viewW, r.viewH)
	return true
}

// Scene assembles the current frame: transform, node views with badges
// and result selections, and routed edges.
func (r *Renderer) Scene() Scene {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	nodes := r.store.Nodes()
	views := make([]NodeView, 0, len(nodes))
	for _, n := range nodes {
		views = append(views, r.nodeViewLocked(n))
	}

	return Scene{
		Transform: Transform{X: r.view.X, Y: r.view.Y, Scale: r.view.Scale},
		Nodes:     views,
		Edges:     router.Routes(r.store),
	}
}

func (r *Renderer) nodeViewLocked(n graph.Node) NodeView {
	bounds := layout.NodeBounds(n)

	view := NodeView{
		Node:        n,
		X:           bounds.X,
		Y:           bounds.Y,
		Width:       bounds.W,
		Height:      bounds.H,
		Color:       r.theme.Color(n.Type),
		PendingRuns: r.tracker.PendingCount(n.Name),
		ResultIndex: r.tracker.SelectedIndex(n.Name),
		ResultCount: len(r.tracker.Results(n.Name)),
		MapExpanded: r.expanded[n.Name],
	}

	for i, p := range n.Inputs {
		view.InputPorts = append(view.InputPorts, PortView{
			Name:         p.Name,
			AnchorX:      n.X,
			AnchorY:      n.Y + layout.PortAnchorY(i),
			HistoryCount: p.HistoryCount,
		})
	}
	for i, name := range n.Outputs {
		view.OutputPorts = append(view.OutputPorts, PortView{
			Name:    name,
			AnchorX: n.X + layout.NodeWidth,
			AnchorY: n.Y + layout.PortAnchorY(i),
		})
	}

	current, hasHistory := r.tracker.CurrentResult(n.Name)
	if hasHistory {
		view.ResultRunID = current.RunID
		view.ResultAt = current.At.Format("15:04:05")
	}

	for _, w := range n.InputWidgets {
		view.InputWidgets = append(view.InputWidgets, r.widgetViewLocked(w, w.Value))
	}
	for _, w := range n.OutputWidgets {
		value := w.Value
		if hasHistory {
			// The selected history entry wins over the live value.
			if v, ok := current.Values[w.Label]; ok {
				value = v
			}
		}
		view.OutputWidgets = append(view.OutputWidgets, r.widgetViewLocked(w, value))
	}

	return view
}

func (r *Renderer) widgetViewLocked(w graph.Widget, value any) WidgetView {
	view := WidgetView{Widget: w, Value: value}
	if r.widgets != nil {
		shown := w
		shown.Value = value
		view.Rendered = r.widgets.RenderWidget(shown)
	}
	return view
}

func (r *Renderer) emitLocked(data graph.CanvasData) {
	if r.emit == nil {
		return
	}
	r.emit(data)
}

func copyInputs(inputs map[string]map[string]any) map[string]map[string]any {
	out := make(map[string]map[string]any, len(inputs))
	for node, ports := range inputs {
		out[node] = make(map[string]any, len(ports))
		for port, value := range ports {
			out[node][port] = value
		}
	}
	return out
}
